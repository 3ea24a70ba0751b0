package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/hamasa/core/assignment"
)

// seedAssignments loads the assignment catalog from a JSON file; entries
// with an already-used slug are skipped.
func (cli *commandLine) seedAssignments(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading catalog file")
	}

	var entries []assignment.NewAssignment
	if err = json.Unmarshal(raw, &entries); err != nil {
		return errors.Wrap(err, "parsing catalog file")
	}

	ctx := context.Background()
	existing, err := cli.asgSvc.Catalog(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, asg := range existing {
		seen[asg.Slug] = true
	}

	var created int
	for _, na := range entries {
		if err = cli.validate.Struct(&na); err != nil {
			return errors.Wrapf(err, "invalid entry %q", na.Slug)
		}
		if seen[na.Slug] {
			logger.Printf("skipping %q: already seeded", na.Slug)
			continue
		}
		if _, err = cli.asgSvc.Create(ctx, na); err != nil {
			return errors.Wrapf(err, "creating %q", na.Slug)
		}
		created++
	}
	logger.Printf("seeded %d assignment(s)", created)
	return nil
}
