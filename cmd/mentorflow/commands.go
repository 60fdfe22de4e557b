package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mentorflow/mentorflow/internal/dashboard"
	"github.com/mentorflow/mentorflow/internal/domain"
)

type command struct {
	name  string
	usage string
	// signedIn commands run after the configured account is signed in and the stores
	// are started.
	signedIn bool
	realtime bool
	run      func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{name: "signup", usage: "signup -email E -password P -name N [-role intern|supervisor] [-specialty S] [-course-year Y]", run: signup},
	{name: "dashboard", usage: "dashboard", signedIn: true, run: showDashboard},
	{name: "projects", usage: "projects [-status all|todo|in-progress|review|done] [-q text]", signedIn: true, run: listProjects},
	{name: "show", usage: "show PROJECT [-suggest]", signedIn: true, run: showProject},
	{name: "create", usage: "create -title T -assign MEMBER -deadline YYYY-MM-DD [-description D] [-status S]", signedIn: true, run: createProject},
	{name: "status", usage: "status PROJECT STATUS", signedIn: true, run: setStatus},
	{name: "check", usage: "check PROJECT (-add TEXT | -toggle ITEM | -remove ITEM)", signedIn: true, run: editChecklist},
	{name: "comment", usage: "comment PROJECT TEXT...", signedIn: true, run: addComment},
	{name: "delete", usage: "delete PROJECT", signedIn: true, run: deleteProject},
	{name: "team", usage: "team [-role all|supervisor|intern]", signedIn: true, run: listTeam},
	{name: "invite", usage: "invite -email E -name N [-role intern|supervisor] [-specialty S] [-course-year Y]", signedIn: true, run: inviteMember},
	{name: "remove", usage: "remove MEMBER", signedIn: true, run: removeMember},
	{name: "profile", usage: "profile [-name N] [-avatar URL] [-specialty S] [-course-year Y]", signedIn: true, run: editProfile},
	{name: "watch", usage: "watch", signedIn: true, realtime: true, run: watch},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: mentorflow COMMAND [ARGS]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintln(w, "  "+c.usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PROJECT and MEMBER accept an id or a unique id prefix; MEMBER also accepts an email.")
}

// parseArgs parses flags wherever they appear and returns the positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func wantArgs(positional []string, n int, usage string) error {
	if len(positional) < n {
		return errors.New("usage: mentorflow " + usage)
	}
	return nil
}

// profileFlags are shared by signup and invite.
type profileFlags struct {
	email      string
	name       string
	avatar     string
	role       string
	specialty  string
	courseYear string
}

func (p *profileFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.email, "email", "", "email address")
	fs.StringVar(&p.name, "name", "", "full name")
	fs.StringVar(&p.avatar, "avatar", "", "avatar url")
	fs.StringVar(&p.role, "role", string(domain.RoleIntern), "intern or supervisor")
	fs.StringVar(&p.specialty, "specialty", "", "specialty (supervisors)")
	fs.StringVar(&p.courseYear, "course-year", "", "course year (interns)")
}

func (p *profileFlags) attributes() (domain.ProfileAttributes, error) {
	if p.email == "" || p.name == "" {
		return domain.ProfileAttributes{}, errors.New("-email and -name are required")
	}
	role := domain.Role(p.role)
	if role != domain.RoleIntern && role != domain.RoleSupervisor {
		return domain.ProfileAttributes{}, fmt.Errorf("unknown role %q", p.role)
	}
	return domain.ProfileAttributes{
		Name:    p.name,
		Avatar:  p.avatar,
		Profile: domain.NewRoleProfile(role, p.specialty, p.courseYear),
	}, nil
}

func signup(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	var p profileFlags
	p.register(fs)
	password := fs.String("password", "", "password")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	attrs, err := p.attributes()
	if err != nil {
		return err
	}
	if *password == "" {
		return errors.New("-password is required")
	}

	signedIn, err := a.auth.SignUp(ctx, p.email, *password, attrs)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, a.styles.Success.Render("Account created."))
	if !signedIn {
		fmt.Fprintln(a.out, "Sign in with the new credentials to continue.")
	}
	return nil
}

func (a *app) renderDashboard() (string, error) {
	user, err := a.user()
	if err != nil {
		return "", err
	}
	if user.IsSupervisor() {
		return renderSupervisorDashboard(a.styles, user, a.projects.Projects(), a.roster.Interns(), a.now()), nil
	}
	return renderInternDashboard(a.styles, user, a.projects.Projects(), a.now()), nil
}

func showDashboard(_ context.Context, a *app, _ []string) error {
	out, err := a.renderDashboard()
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, out)
	return nil
}

// visibleProjects is everything for supervisors and the assigned projects for interns.
func (a *app) visibleProjects() ([]*domain.Project, error) {
	user, err := a.user()
	if err != nil {
		return nil, err
	}
	if user.IsSupervisor() {
		return a.projects.Projects(), nil
	}
	return assignedTo(user.ID, a.projects.Projects()), nil
}

func listProjects(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("projects", flag.ContinueOnError)
	status := fs.String("status", dashboard.StatusAll, "status filter")
	query := fs.String("q", "", "search title and description")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if *status != dashboard.StatusAll && !domain.ProjectStatus(*status).Valid() {
		return fmt.Errorf("unknown status %q", *status)
	}

	projects, err := a.visibleProjects()
	if err != nil {
		return err
	}

	fmt.Fprint(a.out, renderProjectList(a.styles, dashboard.Filter(projects, *status, *query), namesOf(a.roster.Members()), a.now()))
	return nil
}

// project finds a cached project by id or unique id prefix.
func (a *app) project(ref string) (*domain.Project, error) {
	if p, ok := a.projects.GetProject(ref); ok {
		return p, nil
	}

	var match *domain.Project
	for _, p := range a.projects.Projects() {
		if !strings.HasPrefix(p.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%q matches more than one project", ref)
		}
		match = p
	}
	if match == nil {
		return nil, fmt.Errorf("no project matches %q", ref)
	}
	return match, nil
}

// member finds a team member by id, unique id prefix or email.
func (a *app) member(ref string) (*domain.User, error) {
	if m, ok := a.roster.Member(ref); ok {
		return m, nil
	}

	var match *domain.User
	for _, m := range a.roster.Members() {
		if strings.EqualFold(m.Email, ref) {
			return m, nil
		}
		if !strings.HasPrefix(m.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%q matches more than one member", ref)
		}
		match = m
	}
	if match == nil {
		return nil, fmt.Errorf("no member matches %q", ref)
	}
	return match, nil
}

func showProject(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	suggest := fs.Bool("suggest", false, "suggest a reply to the last comment")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := wantArgs(positional, 1, "show PROJECT [-suggest]"); err != nil {
		return err
	}

	p, err := a.project(positional[0])
	if err != nil {
		return err
	}

	risk := a.advisor.AnalyzeRisk(ctx, p.Title, p.Status, p.Deadline, p.Checklist.Completed(), len(p.Checklist))

	var suggestion string
	if *suggest {
		last, ok := p.LastComment()
		if !ok {
			return errors.New("there is no comment to reply to")
		}
		suggestion = a.advisor.GenerateSmartReply(ctx, p.Description, last.Text)
	}

	fmt.Fprint(a.out, renderProject(a.styles, p, namesOf(a.roster.Members()), risk, suggestion, a.now()))
	return nil
}

func createProject(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	title := fs.String("title", "", "project title")
	description := fs.String("description", "", "project description")
	assign := fs.String("assign", "", "member the project is assigned to")
	deadline := fs.String("deadline", "", "deadline as YYYY-MM-DD")
	status := fs.String("status", string(domain.StatusTodo), "initial status")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if *title == "" || *assign == "" || *deadline == "" {
		return errors.New("-title, -assign and -deadline are required")
	}

	assignee, err := a.member(*assign)
	if err != nil {
		return err
	}
	due, err := time.ParseInLocation(dateLayout, *deadline, time.Local)
	if err != nil {
		return fmt.Errorf("invalid deadline %q, expected YYYY-MM-DD", *deadline)
	}

	err = a.projects.AddProject(ctx, domain.NewProject{
		Title:        *title,
		Description:  *description,
		AssignedToID: assignee.ID,
		Status:       domain.ProjectStatus(*status),
		Deadline:     due,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, a.styles.Success.Render("Project created for "+assignee.Name+"."))
	return nil
}

func setStatus(ctx context.Context, a *app, args []string) error {
	if err := wantArgs(args, 2, "status PROJECT STATUS"); err != nil {
		return err
	}
	p, err := a.project(args[0])
	if err != nil {
		return err
	}

	status := domain.ProjectStatus(args[1])
	if err := a.projects.UpdateProjectStatus(ctx, p.ID, status); err != nil {
		return err
	}

	fmt.Fprintln(a.out, a.styles.Success.Render(p.Title+" is now ")+a.styles.Status(status))
	return nil
}

func editChecklist(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	add := fs.String("add", "", "text of a new item")
	toggle := fs.String("toggle", "", "id of the item to toggle")
	remove := fs.String("remove", "", "id of the item to remove")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := wantArgs(positional, 1, "check PROJECT (-add TEXT | -toggle ITEM | -remove ITEM)"); err != nil {
		return err
	}
	if fs.NFlag() != 1 {
		return errors.New("give exactly one of -add, -toggle and -remove")
	}

	p, err := a.project(positional[0])
	if err != nil {
		return err
	}

	hasItem := func(id string) bool {
		for _, item := range p.Checklist {
			if item.ID == id {
				return true
			}
		}
		return false
	}

	var checklist domain.Checklist
	switch {
	case *add != "":
		checklist = p.Checklist.Add(*add)
	case *toggle != "":
		if !hasItem(*toggle) {
			return fmt.Errorf("no checklist item %q", *toggle)
		}
		checklist = p.Checklist.Toggle(*toggle)
	case *remove != "":
		if !hasItem(*remove) {
			return fmt.Errorf("no checklist item %q", *remove)
		}
		checklist = p.Checklist.Remove(*remove)
	default:
		return errors.New("the checklist option needs a value")
	}

	if err := a.projects.UpdateChecklist(ctx, p.ID, checklist); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %d/%d\n", a.styles.Success.Render("Checklist saved."), checklist.Completed(), len(checklist))
	return nil
}

func addComment(ctx context.Context, a *app, args []string) error {
	if err := wantArgs(args, 2, "comment PROJECT TEXT..."); err != nil {
		return err
	}
	p, err := a.project(args[0])
	if err != nil {
		return err
	}

	if err := a.projects.AddComment(ctx, p.ID, strings.Join(args[1:], " ")); err != nil {
		return err
	}

	fmt.Fprintln(a.out, a.styles.Success.Render("Comment posted."))
	return nil
}

func deleteProject(ctx context.Context, a *app, args []string) error {
	if err := wantArgs(args, 1, "delete PROJECT"); err != nil {
		return err
	}
	p, err := a.project(args[0])
	if err != nil {
		return err
	}

	if err := a.projects.DeleteProject(ctx, p.ID); err != nil {
		return err
	}

	fmt.Fprintln(a.out, a.styles.Success.Render("Deleted "+p.Title+"."))
	return nil
}

func listTeam(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("team", flag.ContinueOnError)
	role := fs.String("role", "all", "role filter")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	var members []*domain.User
	switch domain.Role(*role) {
	case domain.RoleIntern:
		members = a.roster.Interns()
	case domain.RoleSupervisor:
		for _, m := range a.roster.Members() {
			if m.IsSupervisor() {
				members = append(members, m)
			}
		}
	case "all":
		members = a.roster.Members()
	default:
		return fmt.Errorf("unknown role %q", *role)
	}

	fmt.Fprint(a.out, renderTeam(a.styles, members, a.projects.Projects()))
	return nil
}

func inviteMember(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("invite", flag.ContinueOnError)
	var p profileFlags
	p.register(fs)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	attrs, err := p.attributes()
	if err != nil {
		return err
	}

	member, err := a.roster.Invite(ctx, p.email, attrs)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, a.styles.Success.Render("Invitation sent to "+member.Email+"."))
	return nil
}

func removeMember(ctx context.Context, a *app, args []string) error {
	if err := wantArgs(args, 1, "remove MEMBER"); err != nil {
		return err
	}
	m, err := a.member(args[0])
	if err != nil {
		return err
	}

	if err := a.roster.Remove(ctx, m.ID); err != nil {
		return err
	}

	fmt.Fprintln(a.out, a.styles.Success.Render("Removed "+m.Name+"."))
	return nil
}

func editProfile(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	avatar := fs.String("avatar", "", "avatar url")
	specialty := fs.String("specialty", "", "specialty (supervisors)")
	courseYear := fs.String("course-year", "", "course year (interns)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	// only flags given on the command line are sent
	var attrs domain.UserAttributes
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			attrs.Name = name
		case "avatar":
			attrs.Avatar = avatar
		case "specialty":
			attrs.Specialty = specialty
		case "course-year":
			attrs.CourseYear = courseYear
		}
	})

	if fs.NFlag() > 0 {
		if err := a.auth.UpdateUser(ctx, attrs); err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.styles.Success.Render("Profile updated."))
	}

	user, err := a.user()
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, renderProfile(a.styles, user))
	return nil
}

// watch redraws the dashboard whenever the projects or the team change, until interrupted.
func watch(ctx context.Context, a *app, _ []string) error {
	projectChanges, stopProjects := a.projects.Changes()
	defer stopProjects()
	rosterChanges, stopRoster := a.roster.Changes()
	defer stopRoster()

	for {
		out, err := a.renderDashboard()
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, "\033[H\033[2J"+out)
		fmt.Fprintln(a.out, a.styles.Muted.Render("Updated "+a.now().Format("15:04:05")+", CTRL+C to quit"))

		select {
		case <-ctx.Done():
			return nil
		case <-projectChanges:
		case <-rosterChanges:
		}
	}
}
