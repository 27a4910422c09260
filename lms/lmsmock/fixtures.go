package lmsmock

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/infiotinc/lmsgql/lms"
)

const defaultSearchLimit = 10

type course struct {
	lms.CourseFields
	categoryID    string
	instructorIDs []string
}

type enrollment struct {
	id         string
	userID     string
	courseID   string
	enrolledAt time.Time
}

// Fixtures is an in-memory LMS backing the mock handlers
type Fixtures struct {
	// Now defaults to time.Now
	Now func() time.Time

	m           sync.RWMutex
	categories  []*lms.CategoryFields
	courses     []*course
	users       []*lms.UserFields
	enrollments []*enrollment
	meID        string

	subsm sync.Mutex
	subs  map[chan *lms.CategoryFields]struct{}
}

func NewFixtures() *Fixtures {
	return &Fixtures{
		Now:  time.Now,
		subs: map[chan *lms.CategoryFields]struct{}{},
	}
}

// SeedFixtures returns fixtures holding a small demo catalog, the first user is the signed in one
func SeedFixtures() *Fixtures {
	f := NewFixtures()

	at := time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC)
	f.Now = func() time.Time { return at }

	math := f.AddCategory(lms.CategoryFields{ID: "1", Name: "Math", Description: strPtr("Numbers and proofs")})
	f.AddCategory(lms.CategoryFields{ID: "2", Name: "Physics"})
	f.AddCategory(lms.CategoryFields{ID: "3", Name: "Literature", Description: strPtr("Reading and writing")})

	f.AddUser(lms.UserFields{ID: "u1", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Role: lms.RoleAdmin})
	f.AddUser(lms.UserFields{ID: "u2", Email: "alan@example.com", FirstName: "Alan", LastName: "Turing", Role: lms.RoleInstructor})
	f.AddUser(lms.UserFields{ID: "u3", Email: "grace@example.com", FirstName: "Grace", LastName: "Hopper", Role: lms.RoleInstructor})
	f.AddUser(lms.UserFields{ID: "u4", Email: "linus@example.com", FirstName: "Linus", LastName: "Torvalds", Role: lms.RoleStudent})
	f.AddUser(lms.UserFields{ID: "u5", Email: "margaret@example.com", FirstName: "Margaret", LastName: "Hamilton", Role: lms.RoleStudent})
	f.SetMe("u1")

	f.AddCourse(lms.CourseFields{ID: "c1", Title: "Calculus I", Published: true}, math.ID, "u2")
	f.AddCourse(lms.CourseFields{ID: "c2", Title: "Linear Algebra"}, math.ID, "u2", "u3")

	f.Now = time.Now

	return f
}

func strPtr(s string) *string {
	return &s
}

func (f *Fixtures) now() time.Time {
	return f.Now().UTC()
}

// AddCategory stores c, an empty ID is generated
func (f *Fixtures) AddCategory(c lms.CategoryFields) *lms.CategoryFields {
	f.m.Lock()
	defer f.m.Unlock()

	return f.addCategory(c)
}

func (f *Fixtures) addCategory(c lms.CategoryFields) *lms.CategoryFields {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = f.now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	stored := c
	f.categories = append(f.categories, &stored)

	return &stored
}

func (f *Fixtures) AddUser(u lms.UserFields) *lms.UserFields {
	f.m.Lock()
	defer f.m.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = lms.RoleStudent
	}

	stored := u
	f.users = append(f.users, &stored)

	return &stored
}

// AddCourse stores c in category categoryID, taught by instructorIDs
func (f *Fixtures) AddCourse(c lms.CourseFields, categoryID string, instructorIDs ...string) *lms.CourseFields {
	f.m.Lock()
	defer f.m.Unlock()

	return f.addCourse(c, categoryID, instructorIDs)
}

func (f *Fixtures) addCourse(c lms.CourseFields, categoryID string, instructorIDs []string) *lms.CourseFields {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = f.now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	stored := &course{
		CourseFields:  c,
		categoryID:    categoryID,
		instructorIDs: append([]string(nil), instructorIDs...),
	}
	f.courses = append(f.courses, stored)

	return f.courseView(stored)
}

// SetMe selects the user answering the Me query and UpdateProfile mutation
func (f *Fixtures) SetMe(id string) {
	f.m.Lock()
	defer f.m.Unlock()

	f.meID = id
}

// Subscribers reports the number of live OnCategoryCreated subscriptions
func (f *Fixtures) Subscribers() int {
	f.subsm.Lock()
	defer f.subsm.Unlock()

	return len(f.subs)
}

func (f *Fixtures) subscribe() (chan *lms.CategoryFields, func()) {
	ch := make(chan *lms.CategoryFields, 16)

	f.subsm.Lock()
	f.subs[ch] = struct{}{}
	f.subsm.Unlock()

	return ch, func() {
		f.subsm.Lock()
		delete(f.subs, ch)
		f.subsm.Unlock()
	}
}

func (f *Fixtures) publish(c lms.CategoryFields) {
	f.subsm.Lock()
	defer f.subsm.Unlock()

	for ch := range f.subs {
		v := c
		select {
		case ch <- &v:
		default:
		}
	}
}

func (f *Fixtures) category(id string) *lms.CategoryFields {
	for _, c := range f.categories {
		if c.ID == id {
			return c
		}
	}

	return nil
}

func (f *Fixtures) categoryView(c *lms.CategoryFields) *lms.CategoryFields {
	v := *c
	v.CoursesCount = 0
	for _, co := range f.courses {
		if co.categoryID == c.ID {
			v.CoursesCount++
		}
	}

	return &v
}

func (f *Fixtures) user(id string) *lms.UserFields {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}

	return nil
}

func (f *Fixtures) course(id string) *course {
	for _, c := range f.courses {
		if c.ID == id {
			return c
		}
	}

	return nil
}

func (f *Fixtures) courseView(c *course) *lms.CourseFields {
	v := c.CourseFields

	v.Category = nil
	if cat := f.category(c.categoryID); cat != nil {
		v.Category = f.categoryView(cat)
	}

	v.Instructors = make([]*lms.UserFields, 0, len(c.instructorIDs))
	for _, id := range c.instructorIDs {
		if u := f.user(id); u != nil {
			uv := *u
			v.Instructors = append(v.Instructors, &uv)
		}
	}

	v.EnrolledCount = 0
	for _, e := range f.enrollments {
		if e.courseID == c.ID {
			v.EnrolledCount++
		}
	}

	return &v
}

func notFound() error {
	return &gqlerror.Error{Message: "not found"}
}

func (f *Fixtures) getCategories(_ context.Context, _ NoVariables) (*lms.GetCategories, error) {
	f.m.RLock()
	defer f.m.RUnlock()

	res := &lms.GetCategories{GetCategories: make([]*lms.CategoryFields, 0, len(f.categories))}
	for _, c := range f.categories {
		res.GetCategories = append(res.GetCategories, f.categoryView(c))
	}

	return res, nil
}

func (f *Fixtures) getCategory(_ context.Context, vars lms.GetCategoryVariables) (*lms.GetCategory, error) {
	f.m.RLock()
	defer f.m.RUnlock()

	res := &lms.GetCategory{}
	if c := f.category(vars.GetCategoryID); c != nil {
		res.GetCategory = f.categoryView(c)
	}

	return res, nil
}

func (f *Fixtures) getCourses(_ context.Context, vars lms.GetCoursesVariables) (*lms.GetCourses, error) {
	f.m.RLock()
	defer f.m.RUnlock()

	res := &lms.GetCourses{GetCourses: make([]*lms.CourseFields, 0, len(f.courses))}
	for _, c := range f.courses {
		if vars.CategoryID != nil && c.categoryID != *vars.CategoryID {
			continue
		}
		res.GetCourses = append(res.GetCourses, f.courseView(c))
	}

	return res, nil
}

func (f *Fixtures) getCourse(_ context.Context, vars lms.GetCourseVariables) (*lms.GetCourse, error) {
	f.m.RLock()
	defer f.m.RUnlock()

	res := &lms.GetCourse{}
	if c := f.course(vars.GetCourseID); c != nil {
		res.GetCourse = f.courseView(c)
	}

	return res, nil
}

func (f *Fixtures) searchUsers(_ context.Context, vars lms.SearchUsersVariables) (*lms.SearchUsers, error) {
	f.m.RLock()
	defer f.m.RUnlock()

	filter := vars.Filter

	limit := defaultSearchLimit
	if filter.Limit != nil {
		limit = *filter.Limit
	}

	exclude := make(map[string]bool, len(filter.ExcludeIds))
	for _, id := range filter.ExcludeIds {
		exclude[id] = true
	}

	term := ""
	if filter.Search != nil {
		term = strings.ToLower(strings.TrimSpace(*filter.Search))
	}

	res := &lms.SearchUsers{SearchUsers: []*lms.UserFields{}}
	for _, u := range f.users {
		if len(res.SearchUsers) >= limit {
			break
		}
		if exclude[u.ID] {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if term != "" && !matchesUser(u, term) {
			continue
		}

		v := *u
		res.SearchUsers = append(res.SearchUsers, &v)
	}

	return res, nil
}

func matchesUser(u *lms.UserFields, term string) bool {
	full := strings.ToLower(u.FirstName + " " + u.LastName)

	return strings.Contains(full, term) || strings.Contains(strings.ToLower(u.Email), term)
}

func (f *Fixtures) me(_ context.Context, _ NoVariables) (*lms.Me, error) {
	f.m.RLock()
	defer f.m.RUnlock()

	res := &lms.Me{}
	if u := f.user(f.meID); u != nil {
		v := *u
		res.Me = &v
	}

	return res, nil
}

func (f *Fixtures) getEnrollments(_ context.Context, vars lms.GetEnrollmentsVariables) (*lms.GetEnrollments, error) {
	f.m.RLock()
	defer f.m.RUnlock()

	c := f.course(vars.CourseID)
	if c == nil {
		return nil, notFound()
	}

	res := &lms.GetEnrollments{GetEnrollments: []*lms.GetEnrollments_GetEnrollments{}}
	for _, e := range f.enrollments {
		if e.courseID != c.ID {
			continue
		}

		u := f.user(e.userID)
		if u == nil {
			continue
		}

		res.GetEnrollments = append(res.GetEnrollments, &lms.GetEnrollments_GetEnrollments{
			ID:         e.id,
			EnrolledAt: e.enrolledAt,
			User:       *u,
			Course: lms.GetEnrollments_GetEnrollments_Course{
				ID:    c.ID,
				Title: c.Title,
			},
		})
	}

	return res, nil
}

func (f *Fixtures) createCategory(_ context.Context, vars lms.CreateCategoryVariables) (*lms.CreateCategory, error) {
	name := strings.TrimSpace(vars.Input.Name)
	if name == "" {
		return nil, gqlerror.Errorf("name must not be empty")
	}

	f.m.Lock()
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			f.m.Unlock()
			return nil, gqlerror.Errorf("category %q already exists", name)
		}
	}
	c := *f.categoryView(f.addCategory(lms.CategoryFields{Name: name, Description: vars.Input.Description}))
	f.m.Unlock()

	f.publish(c)

	return &lms.CreateCategory{CreateCategory: c}, nil
}

func (f *Fixtures) updateCategory(_ context.Context, vars lms.UpdateCategoryVariables) (*lms.UpdateCategory, error) {
	f.m.Lock()
	defer f.m.Unlock()

	c := f.category(vars.UpdateCategoryID)
	if c == nil {
		return nil, notFound()
	}

	if vars.Input.Name != nil {
		name := strings.TrimSpace(*vars.Input.Name)
		if name == "" {
			return nil, gqlerror.Errorf("name must not be empty")
		}
		c.Name = name
	}
	if vars.Input.Description != nil {
		c.Description = vars.Input.Description
	}
	c.UpdatedAt = f.now()

	return &lms.UpdateCategory{UpdateCategory: *f.categoryView(c)}, nil
}

func (f *Fixtures) deleteCategory(_ context.Context, vars lms.DeleteCategoryVariables) (*lms.DeleteCategory, error) {
	f.m.Lock()
	defer f.m.Unlock()

	for i, c := range f.categories {
		if c.ID != vars.DeleteCategoryID {
			continue
		}

		for _, co := range f.courses {
			if co.categoryID == c.ID {
				co.categoryID = ""
			}
		}

		f.categories = append(f.categories[:i], f.categories[i+1:]...)

		return &lms.DeleteCategory{DeleteCategory: true}, nil
	}

	return nil, notFound()
}

func (f *Fixtures) createCourse(_ context.Context, vars lms.CreateCourseVariables) (*lms.CreateCourse, error) {
	title := strings.TrimSpace(vars.Input.Title)
	if title == "" {
		return nil, gqlerror.Errorf("title must not be empty")
	}

	f.m.Lock()
	defer f.m.Unlock()

	if f.category(vars.Input.CategoryID) == nil {
		return nil, gqlerror.Errorf("category %s not found", vars.Input.CategoryID)
	}

	for _, id := range vars.Input.InstructorIds {
		u := f.user(id)
		if u == nil {
			return nil, gqlerror.Errorf("user %s not found", id)
		}
		if u.Role == lms.RoleStudent {
			return nil, gqlerror.Errorf("user %s cannot teach", id)
		}
	}

	c := f.addCourse(lms.CourseFields{Title: title, Description: vars.Input.Description}, vars.Input.CategoryID, vars.Input.InstructorIds)

	return &lms.CreateCourse{CreateCourse: *c}, nil
}

func (f *Fixtures) enrollUsers(_ context.Context, vars lms.EnrollUsersVariables) (*lms.EnrollUsers, error) {
	f.m.Lock()
	defer f.m.Unlock()

	c := f.course(vars.CourseID)
	if c == nil {
		return nil, notFound()
	}

	enrolled := map[string]bool{}
	for _, e := range f.enrollments {
		if e.courseID == c.ID {
			enrolled[e.userID] = true
		}
	}

	res := &lms.EnrollUsers{EnrollUsers: []*lms.EnrollUsers_EnrollUsers{}}
	for _, id := range vars.UserIds {
		u := f.user(id)
		if u == nil {
			return nil, gqlerror.Errorf("user %s not found", id)
		}
		if enrolled[id] {
			continue
		}
		enrolled[id] = true

		e := &enrollment{
			id:         uuid.NewString(),
			userID:     id,
			courseID:   c.ID,
			enrolledAt: f.now(),
		}
		f.enrollments = append(f.enrollments, e)

		res.EnrollUsers = append(res.EnrollUsers, &lms.EnrollUsers_EnrollUsers{
			ID:         e.id,
			EnrolledAt: e.enrolledAt,
			User:       *u,
		})
	}

	return res, nil
}

const (
	maxNameLength = 50
	maxBioLength  = 500
)

func validateProfile(input lms.UpdateProfileInput) []*lms.FieldError {
	var errs []*lms.FieldError

	name := func(field string, v *string) {
		if v == nil {
			return
		}
		switch n := utf8.RuneCountInString(strings.TrimSpace(*v)); {
		case n == 0:
			errs = append(errs, &lms.FieldError{Field: field, Message: "must not be empty"})
		case n > maxNameLength:
			errs = append(errs, &lms.FieldError{Field: field, Message: "must be at most 50 characters"})
		}
	}
	name("firstName", input.FirstName)
	name("lastName", input.LastName)

	if input.Bio != nil && utf8.RuneCountInString(*input.Bio) > maxBioLength {
		errs = append(errs, &lms.FieldError{Field: "bio", Message: "must be at most 500 characters"})
	}

	if input.AvatarURL != nil && *input.AvatarURL != "" {
		u, err := url.Parse(*input.AvatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, &lms.FieldError{Field: "avatarUrl", Message: "must be an http(s) URL"})
		}
	}

	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Field < errs[j].Field
	})

	return errs
}

func (f *Fixtures) updateProfile(_ context.Context, vars lms.UpdateProfileVariables) (*lms.UpdateProfile, error) {
	if errs := validateProfile(vars.Input); len(errs) > 0 {
		return &lms.UpdateProfile{
			UpdateProfile: &lms.UpdateProfile_UpdateProfile_ProfileValidationError{
				Typename:    "ProfileValidationError",
				Message:     "invalid profile",
				FieldErrors: errs,
			},
		}, nil
	}

	f.m.Lock()
	defer f.m.Unlock()

	u := f.user(f.meID)
	if u == nil {
		return nil, gqlerror.Errorf("not signed in")
	}

	in := vars.Input
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Bio != nil {
		u.Bio = in.Bio
	}
	if in.AvatarURL != nil {
		u.AvatarURL = in.AvatarURL
		if *in.AvatarURL == "" {
			u.AvatarURL = nil
		}
	}

	return &lms.UpdateProfile{
		UpdateProfile: &lms.UpdateProfile_UpdateProfile_User{
			Typename:   "User",
			UserFields: *u,
		},
	}, nil
}

func (f *Fixtures) onCategoryCreated(ctx context.Context, _ NoVariables) (<-chan *lms.OnCategoryCreated, error) {
	in, unsubscribe := f.subscribe()

	out := make(chan *lms.OnCategoryCreated)
	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			select {
			case c := <-in:
				select {
				case out <- &lms.OnCategoryCreated{CategoryCreated: *c}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Handlers answers every LMS operation from f
func (f *Fixtures) Handlers() []Handler {
	return []Handler{
		MockGetCategoriesQuery(f.getCategories),
		MockGetCategoryQuery(f.getCategory),
		MockGetCoursesQuery(f.getCourses),
		MockGetCourseQuery(f.getCourse),
		MockSearchUsersQuery(f.searchUsers),
		MockMeQuery(f.me),
		MockGetEnrollmentsQuery(f.getEnrollments),
		MockCreateCategoryMutation(f.createCategory),
		MockUpdateCategoryMutation(f.updateCategory),
		MockDeleteCategoryMutation(f.deleteCategory),
		MockCreateCourseMutation(f.createCourse),
		MockEnrollUsersMutation(f.enrollUsers),
		MockUpdateProfileMutation(f.updateProfile),
		MockOnCategoryCreatedSubscription(f.onCategoryCreated),
	}
}
