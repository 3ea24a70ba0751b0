package main

import (
	"context"

	"github.com/trezcool/hamasa/core/user"
)

// addUser provisions an account; learners also get a fresh profile.
func (cli *commandLine) addUser(code, name, role, email string, coins int) error {
	nu := user.NewUser{
		Code:          code,
		Role:          role,
		FullName:      name,
		Email:         email,
		StartingCoins: coins,
	}
	nu.Normalize()
	if err := cli.validate.Struct(&nu); err != nil {
		return err
	}

	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	logger.Printf("created %s user %q with access code %s", usr.Role, usr.FullName, usr.Code)
	return nil
}
