package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/todos/adapter/cli"
	"github.com/felixgeelhaar/todos/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/spf13/cobra"
)

var errNoBroker = errors.New("RABBITMQ_URL is not set; change events are only delivered in-process")

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Observe todo change events",
	}
	cmd.AddCommand(newEventsWatchCmd())
	return cmd
}

func newEventsWatchCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print change events published by any todos client",
		Long: `Bind a private queue to the events exchange and print every change
event until interrupted.

Examples:
  todos events watch
  todos events watch --pattern todos.todo.deleted`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := cli.GetApp()
			if a == nil || a.Config == nil {
				return errNotInitialized
			}
			if a.Config.RabbitMQURL == "" {
				return errNoBroker
			}

			consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConfig{URL: a.Config.RabbitMQURL})
			if err != nil {
				return err
			}
			defer consumer.Close()

			if err := consumer.Subscribe(pattern, func(ctx context.Context, d eventbus.Delivery) error {
				return printDelivery(cmd, d)
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", pattern)
			err = consumer.Start(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "todos.todo.*", "routing key pattern to bind")
	return cmd
}

func printDelivery(cmd *cobra.Command, d eventbus.Delivery) error {
	w := cmd.OutOrStdout()
	if jsonOutput() {
		_, err := fmt.Fprintln(w, string(d.Body))
		return err
	}

	var event todo.TodoChanged
	if err := json.Unmarshal(d.Body, &event); err != nil {
		return fmt.Errorf("decode %s: %w", d.RoutingKey, err)
	}
	line := fmt.Sprintf("%s %s #%s", d.ReceivedAt.Format("15:04:05"), d.RoutingKey, event.TodoID)
	if event.Todo != nil {
		line += fmt.Sprintf(" %q [%s] %s", event.Todo.Description, event.Todo.Priority, event.Todo.Status)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
