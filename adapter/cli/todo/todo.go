// Package todo holds the task list commands: list, filter, add, edit,
// draft, submit, cancel, delete and options.
package todo

import (
	"errors"

	"github.com/felixgeelhaar/todos/adapter/cli"
	"github.com/felixgeelhaar/todos/internal/todos/application/services"
	"github.com/spf13/cobra"
)

var errNotInitialized = errors.New("application not initialized - task store configuration required")

// Commands returns fresh instances of every task list command.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		newListCmd(),
		newFilterCmd(),
		newAddCmd(),
		newEditCmd(),
		newDraftCmd(),
		newSubmitCmd(),
		newCancelCmd(),
		newDeleteCmd(),
		newOptionsCmd(),
		newEventsCmd(),
	}
}

func controller() (*services.Controller, error) {
	a := cli.GetApp()
	if a == nil || a.Controller == nil {
		return nil, errNotInitialized
	}
	return a.Controller, nil
}
