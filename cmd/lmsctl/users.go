package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/infiotinc/lmsgql/lms"
)

func userTable(users ...*lms.UserFields) func(w io.Writer) {
	return func(w io.Writer) {
		row(w, "ID", "NAME", "EMAIL", "ROLE")
		for _, u := range users {
			row(w, u.ID, u.FirstName+" "+u.LastName, u.Email, u.Role)
		}
	}
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Find users",
	}

	cmd.AddCommand(usersSearchCmd(), usersMeCmd())

	return cmd
}

func usersSearchCmd() *cobra.Command {
	var (
		role    string
		exclude []string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search users by name or email",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter lms.UserFilter
			if len(args) == 1 {
				filter.Search = &args[0]
			}
			if role != "" {
				r := lms.Role(role)
				if !r.IsValid() {
					return fmt.Errorf("invalid role: %s (valid: %v)", role, lms.AllRole)
				}
				filter.Role = &r
			}
			if cmd.Flags().Changed("limit") {
				filter.Limit = &limit
			}
			filter.ExcludeIds = exclude

			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.SearchUsers(cmd.Context(), lms.SearchUsersVariables{Filter: filter})
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), res.SearchUsers, userTable(res.SearchUsers...))
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Only users with this role")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "User ID to leave out (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of users")

	return cmd
}

func usersMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.Me(cmd.Context())
			if err != nil {
				return err
			}

			if res.Me == nil {
				return fmt.Errorf("not signed in")
			}

			return render(cmd.OutOrStdout(), res.Me, userTable(res.Me))
		},
	}
}

func profileCmd() *cobra.Command {
	var firstName, lastName, bio, avatarURL string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the profile of the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input lms.UpdateProfileInput
			flags := map[string]**string{
				"first-name": &input.FirstName,
				"last-name":  &input.LastName,
				"bio":        &input.Bio,
				"avatar-url": &input.AvatarURL,
			}
			values := map[string]*string{
				"first-name": &firstName,
				"last-name":  &lastName,
				"bio":        &bio,
				"avatar-url": &avatarURL,
			}
			for name, field := range flags {
				if cmd.Flags().Changed(name) {
					*field = values[name]
				}
			}

			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.UpdateProfile(cmd.Context(), lms.UpdateProfileVariables{Input: input})
			if err != nil {
				return err
			}

			switch v := res.UpdateProfile.(type) {
			case *lms.UpdateProfile_UpdateProfile_User:
				return render(cmd.OutOrStdout(), v.UserFields, userTable(&v.UserFields))
			case *lms.UpdateProfile_UpdateProfile_ProfileValidationError:
				_ = render(cmd.OutOrStdout(), v.FieldErrors, func(w io.Writer) {
					row(w, "FIELD", "ERROR")
					for _, fe := range v.FieldErrors {
						row(w, fe.Field, fe.Message)
					}
				})
				return v
			}

			return fmt.Errorf("unexpected profile result %T", res.UpdateProfile)
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&bio, "bio", "", "Biography")
	cmd.Flags().StringVar(&avatarURL, "avatar-url", "", "Avatar URL, empty to remove it")

	return cmd
}
