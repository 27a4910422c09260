package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/infiotinc/lmsgql/lms"
)

func coursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		Short:   "Manage courses and enrollments",
	}

	cmd.AddCommand(
		coursesListCmd(),
		coursesGetCmd(),
		coursesCreateCmd(),
		coursesEnrollCmd(),
		coursesEnrollmentsCmd(),
	)

	return cmd
}

func instructorNames(users []*lms.UserFields) string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.FirstName+" "+u.LastName)
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func courseTable(courses ...*lms.CourseFields) func(w io.Writer) {
	return func(w io.Writer) {
		row(w, "ID", "TITLE", "CATEGORY", "PUBLISHED", "ENROLLED", "INSTRUCTORS")
		for _, c := range courses {
			category := "-"
			if c.Category != nil {
				category = c.Category.Name
			}
			row(w, c.ID, truncate(c.Title, 40), category, c.Published, c.EnrolledCount, instructorNames(c.Instructors))
		}
	}
}

func coursesListCmd() *cobra.Command {
	var categoryID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.GetCourses(cmd.Context(), lms.GetCoursesVariables{CategoryID: optional(categoryID)})
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), res.GetCourses, courseTable(res.GetCourses...))
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "Only list courses of this category")

	return cmd
}

func coursesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.GetCourse(cmd.Context(), lms.GetCourseVariables{GetCourseID: args[0]})
			if err != nil {
				return err
			}

			if res.GetCourse == nil {
				return fmt.Errorf("course %s not found", args[0])
			}

			return render(cmd.OutOrStdout(), res.GetCourse, courseTable(res.GetCourse))
		},
	}
}

func coursesCreateCmd() *cobra.Command {
	var (
		categoryID  string
		description string
		instructors []string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.CreateCourse(cmd.Context(), lms.CreateCourseVariables{
				Input: lms.CreateCourseInput{
					Title:         args[0],
					Description:   optional(description),
					CategoryID:    categoryID,
					InstructorIds: instructors,
				},
			})
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), res.CreateCourse, courseTable(&res.CreateCourse))
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "Category ID")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Course description")
	cmd.Flags().StringSliceVar(&instructors, "instructor", nil, "Instructor user ID (repeatable)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func coursesEnrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enroll <course-id> <user-id>...",
		Short: "Enroll users in a course",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.EnrollUsers(cmd.Context(), lms.EnrollUsersVariables{
				CourseID: args[0],
				UserIds:  args[1:],
			})
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), res.EnrollUsers, func(w io.Writer) {
				row(w, "ENROLLMENT", "USER", "EMAIL", "ENROLLED AT")
				for _, e := range res.EnrollUsers {
					row(w, e.ID, e.User.FirstName+" "+e.User.LastName, e.User.Email, date(e.EnrolledAt))
				}
			})
		},
	}
}

func coursesEnrollmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrollments <course-id>",
		Short: "List the enrollments of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.GetEnrollments(cmd.Context(), lms.GetEnrollmentsVariables{CourseID: args[0]})
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), res.GetEnrollments, func(w io.Writer) {
				row(w, "ENROLLMENT", "COURSE", "USER", "EMAIL", "ENROLLED AT")
				for _, e := range res.GetEnrollments {
					row(w, e.ID, e.Course.Title, e.User.FirstName+" "+e.User.LastName, e.User.Email, date(e.EnrolledAt))
				}
			})
		},
	}
}
