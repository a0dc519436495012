package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"tasklist/internal/todo"
)

func (a *app) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		ArgsUsage: "TEXT...",
		Flags: []cli.Flag{
			categoryFlag("category for the task; 'all' files it under personal"),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.Join(c.Args().Slice(), " ")
			task, added, err := a.store.Add(ctx, text, c.String("category"))
			if err != nil {
				return err
			}
			if !added {
				_, err := fmt.Fprintln(a.out, "nothing to add: task text is empty")
				return err
			}
			_, err = fmt.Fprintln(a.out, task.ID)
			return err
		},
	}
}

func (a *app) listCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tasks, newest first",
		Flags: []cli.Flag{
			categoryFlag("only show tasks in this category"),
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "only show tasks whose text contains this, ignoring case",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the tasks as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			tasks := todo.View(a.store.Tasks(), c.String("category"), c.String("search"))

			if c.Bool("json") {
				data, err := todo.Encode(tasks)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.out, data)
				return err
			}

			if len(tasks) == 0 {
				_, err := fmt.Fprintln(a.out, "No tasks found.")
				return err
			}

			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				done := "[ ]"
				if t.Completed {
					done = "[x]"
				}
				name := t.Category
				if cat, ok := todo.LookupCategory(t.Category); ok {
					name = cat.Name
				}
				rows = append(rows, []string{done, t.Text, name, t.CreatedAt.Local().Format("2006-01-02 15:04"), t.ID})
			}
			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("", "TASK", "CATEGORY", "CREATED", "ID").
				Rows(rows...)
			_, err := fmt.Fprintln(a.out, tbl.Render())
			return err
		},
	}
}

func (a *app) toggleCmd() *cli.Command {
	return &cli.Command{
		Name:      "toggle",
		Usage:     "Mark a task completed, or not completed again",
		ArgsUsage: "ID",
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			changed, err := a.store.Toggle(ctx, id)
			if err != nil {
				return err
			}
			if !changed {
				_, err := fmt.Fprintf(a.out, "no task with id %q\n", id)
				return err
			}
			t, _ := a.store.Get(id)
			state := "open"
			if t.Completed {
				state = "completed"
			}
			_, err = fmt.Fprintf(a.out, "%s %s\n", id, state)
			return err
		},
	}
}

func (a *app) deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a task",
		ArgsUsage: "ID",
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			changed, err := a.store.Delete(ctx, id)
			if err != nil {
				return err
			}
			if !changed {
				_, err := fmt.Fprintf(a.out, "no task with id %q\n", id)
				return err
			}
			_, err = fmt.Fprintf(a.out, "deleted %s\n", id)
			return err
		},
	}
}

func (a *app) categoriesCmd() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List the task categories",
		Action: func(ctx context.Context, c *cli.Command) error {
			rows := make([][]string, 0, 5)
			for _, cat := range todo.Categories() {
				rows = append(rows, []string{cat.ID, cat.Name, cat.Icon, cat.Color})
			}
			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "NAME", "ICON", "COLOR").
				Rows(rows...)
			_, err := fmt.Fprintln(a.out, tbl.Render())
			return err
		},
	}
}
