package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/assignment"
	"github.com/trezcool/hamasa/core/user"
	"github.com/trezcool/hamasa/storage/database"
	sqlxrepos "github.com/trezcool/hamasa/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)

	appDB := core.WrapDB(db)
	userRepo := sqlxrepos.NewUserRepository(db)
	asgRepo := sqlxrepos.NewAssignmentRepository(db)

	// start CLI
	cli := commandLine{
		sqlDB:    db.DB,
		usrSvc:   user.NewService(appDB, userRepo),
		asgSvc:   assignment.NewService(appDB, asgRepo, userRepo, nil, nil),
		validate: validate,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
