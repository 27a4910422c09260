package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/infiotinc/lmsgql/lms"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage course categories",
	}

	cmd.AddCommand(
		categoriesListCmd(),
		categoriesGetCmd(),
		categoriesCreateCmd(),
		categoriesUpdateCmd(),
		categoriesDeleteCmd(),
		categoriesWatchCmd(),
	)

	return cmd
}

func categoryTable(categories ...*lms.CategoryFields) func(w io.Writer) {
	return func(w io.Writer) {
		row(w, "ID", "NAME", "COURSES", "DESCRIPTION", "UPDATED")
		for _, c := range categories {
			row(w, c.ID, c.Name, c.CoursesCount, truncate(deref(c.Description), 40), date(c.UpdatedAt))
		}
	}
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.GetCategories(cmd.Context())
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), res.GetCategories, categoryTable(res.GetCategories...))
		},
	}
}

func categoriesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.GetCategory(cmd.Context(), lms.GetCategoryVariables{GetCategoryID: args[0]})
			if err != nil {
				return err
			}

			if res.GetCategory == nil {
				return fmt.Errorf("category %s not found", args[0])
			}

			return render(cmd.OutOrStdout(), res.GetCategory, categoryTable(res.GetCategory))
		},
	}
}

func categoriesCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.CreateCategory(cmd.Context(), lms.CreateCategoryVariables{
				Input: lms.CreateCategoryInput{
					Name:        args[0],
					Description: optional(description),
				},
			})
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), res.CreateCategory, categoryTable(&res.CreateCategory))
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Category description")

	return cmd
}

func categoriesUpdateCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or describe a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input lms.UpdateCategoryInput
			if cmd.Flags().Changed("name") {
				input.Name = &name
			}
			if cmd.Flags().Changed("description") {
				input.Description = &description
			}

			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.UpdateCategory(cmd.Context(), lms.UpdateCategoryVariables{
				UpdateCategoryID: args[0],
				Input:            input,
			})
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), res.UpdateCategory, categoryTable(&res.UpdateCategory))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")

	return cmd
}

func categoriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.DeleteCategory(cmd.Context(), lms.DeleteCategoryVariables{DeleteCategoryID: args[0]})
			if err != nil {
				return err
			}

			if !res.DeleteCategory {
				return fmt.Errorf("category %s was not deleted", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Category %s deleted\n", args[0])
			return nil
		},
	}
}

func categoriesWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print categories as they are created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if s.cfg.Websocket == "" {
				return fmt.Errorf("watching requires a websocket endpoint")
			}

			ch, err := s.OnCategoryCreated(cmd.Context())
			if err != nil {
				return err
			}

			for msg := range ch {
				if msg.Error != nil {
					return msg.Error
				}

				c := msg.Data.CategoryCreated
				if err := render(cmd.OutOrStdout(), c, categoryTable(&c)); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
