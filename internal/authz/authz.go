// Package authz decides whether an actor may perform an action on a
// resource. Decisions come from a fixed capability table keyed by role and
// action; nothing here touches storage.
package authz

import (
	"fmt"

	"internhub/internal/apperr"
	"internhub/internal/identity"
	"internhub/internal/model"
)

type Action string

const (
	ProfileUpdate     Action = "profile.update"
	InternshipCreate  Action = "internship.create"
	InternshipUpdate  Action = "internship.update"
	InternshipRead    Action = "internship.read"
	ApplicationCreate Action = "application.create"
	ApplicationReview Action = "application.review"
	ApplicationRead   Action = "application.read"
	TaskCreate        Action = "task.create"
	TaskTransition    Action = "task.transition"
	TaskProgress      Action = "task.progress"
	TaskRead          Action = "task.read"
	DashboardEmployer Action = "dashboard.employer"
	DashboardStudent  Action = "dashboard.student"
)

// Actions lists every action the table knows about.
var Actions = []Action{
	ProfileUpdate,
	InternshipCreate, InternshipUpdate, InternshipRead,
	ApplicationCreate, ApplicationReview, ApplicationRead,
	TaskCreate, TaskTransition, TaskProgress, TaskRead,
	DashboardEmployer, DashboardStudent,
}

// Rule is a condition over the actor and the resource. An entry grants the
// action when any of its rules holds.
type Rule int

const (
	Deny Rule = iota
	Allow
	// Owner holds when the actor is the internship's employer.
	Owner
	// Self holds when the actor is the application's student.
	Self
	// Assignee holds when the actor is the task's assignee.
	Assignee
	// Participant holds for the task's creator, its assignee, or the owner of
	// its internship.
	Participant
	// Member holds when the actor has an active membership in the internship.
	Member
	// Visible holds for internships that are no longer drafts.
	Visible
	// Account holds when the profile is the actor's own.
	Account
)

func (r Rule) String() string {
	switch r {
	case Allow:
		return "allow"
	case Owner:
		return "owner"
	case Self:
		return "self"
	case Assignee:
		return "assignee"
	case Participant:
		return "participant"
	case Member:
		return "member"
	case Visible:
		return "visible"
	case Account:
		return "account"
	default:
		return "deny"
	}
}

// Resource is what an action targets. Creation passes the parent internship
// together with the record about to be inserted.
type Resource struct {
	Profile     *model.Profile
	Internship  *model.Internship
	Application *model.Application
	Task        *model.Task
	// Member reports whether the actor holds an active membership in
	// Internship. Callers fill it in; the guard never looks it up.
	Member bool
}

var capabilities = map[model.Role]map[Action][]Rule{
	model.RoleStudent: {
		ProfileUpdate:     {Account},
		InternshipCreate:  {Deny},
		InternshipUpdate:  {Deny},
		InternshipRead:    {Visible, Member},
		ApplicationCreate: {Self},
		ApplicationReview: {Deny},
		ApplicationRead:   {Self},
		TaskCreate:        {Deny},
		TaskTransition:    {Assignee},
		TaskProgress:      {Assignee},
		TaskRead:          {Assignee, Member},
		DashboardEmployer: {Deny},
		DashboardStudent:  {Allow},
	},
	model.RoleEmployer: {
		ProfileUpdate:     {Account},
		InternshipCreate:  {Owner},
		InternshipUpdate:  {Owner},
		InternshipRead:    {Owner, Visible},
		ApplicationCreate: {Deny},
		ApplicationReview: {Owner},
		ApplicationRead:   {Owner},
		TaskCreate:        {Owner},
		TaskTransition:    {Participant},
		TaskProgress:      {Participant},
		TaskRead:          {Participant},
		DashboardEmployer: {Allow},
		DashboardStudent:  {Deny},
	},
	// Admins are unrestricted except where the action only makes sense for
	// a student acting as themselves.
	model.RoleAdmin: {
		ProfileUpdate:     {Allow},
		InternshipCreate:  {Allow},
		InternshipUpdate:  {Allow},
		InternshipRead:    {Allow},
		ApplicationCreate: {Deny},
		ApplicationReview: {Allow},
		ApplicationRead:   {Allow},
		TaskCreate:        {Allow},
		TaskTransition:    {Allow},
		TaskProgress:      {Allow},
		TaskRead:          {Allow},
		DashboardEmployer: {Allow},
		DashboardStudent:  {Deny},
	},
}

// Rules returns the table entry for role and action. Unknown pairs deny.
func Rules(role model.Role, action Action) []Rule {
	rules, ok := capabilities[role][action]
	if !ok {
		return []Rule{Deny}
	}
	return rules
}

// CanPerform reports whether actor may perform action on res.
func CanPerform(actor identity.Actor, action Action, res Resource) bool {
	for _, rule := range Rules(actor.Role, action) {
		if holds(rule, actor, res) {
			return true
		}
	}
	return false
}

// Check is CanPerform expressed as an error.
func Check(actor identity.Actor, action Action, res Resource) error {
	if CanPerform(actor, action, res) {
		return nil
	}
	return apperr.PermissionDenied(fmt.Sprintf("%s is not allowed to perform %s", actor.Role, action))
}

func holds(rule Rule, actor identity.Actor, res Resource) bool {
	switch rule {
	case Allow:
		return true
	case Owner:
		return res.Internship != nil && res.Internship.EmployerID == actor.ID
	case Self:
		return res.Application != nil && res.Application.StudentID == actor.ID
	case Assignee:
		return res.Task != nil && res.Task.AssignedTo == actor.ID
	case Participant:
		if res.Task != nil && (res.Task.CreatedBy == actor.ID || res.Task.AssignedTo == actor.ID) {
			return true
		}
		return holds(Owner, actor, res)
	case Member:
		return res.Member
	case Visible:
		return res.Internship != nil && res.Internship.Status != model.InternshipStatusDraft
	case Account:
		return res.Profile != nil && res.Profile.ID == actor.ID
	default:
		return false
	}
}
