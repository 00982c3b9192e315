// Package manager holds the domain manager view: its state, the pure
// transitions over that state, the rendering of a page from state plus the
// latest list snapshot, and the controller that runs store calls.
//
// Every transition is a function of (State, input) returning a new State and
// the side effects to run. Transitions never mutate their input.
package manager

import (
	"slices"
	"strings"

	"domainnav/internal/domain/models"
	id "domainnav/pkg/domain"
	pstrings "domainnav/pkg/platform/strings"
)

// DomainDraft is the "add domain" form. Type is kept as typed text so an
// unset or unknown type can be represented.
type DomainDraft struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// State is everything the view owns. The domain list is not part of it; the
// view only reads the store's subscription.
type State struct {
	NewDomainDraft      DomainDraft `json:"new_domain_draft"`
	Perspectives        []string    `json:"perspectives"`
	SelectedPerspective string      `json:"selected_perspective"`
	NewPerspectiveDraft string      `json:"new_perspective_draft"`
	// EditOpen reports whether the edit dialog is showing. Editing may
	// outlive it: dismissing the dialog keeps the last draft.
	EditOpen bool           `json:"edit_open"`
	Editing  *models.Domain `json:"editing,omitempty"`
}

// NewState builds the initial view with Default first, followed by extras
// (trimmed, deduplicated, Default dropped). Default is selected.
func NewState(extras []string) State {
	perspectives := []string{models.DefaultPerspective}
	for _, p := range pstrings.DedupeAndTrim(extras) {
		if p != models.DefaultPerspective {
			perspectives = append(perspectives, p)
		}
	}
	return State{
		Perspectives:        perspectives,
		SelectedPerspective: models.DefaultPerspective,
	}
}

func (s State) clone() State {
	out := s
	out.Perspectives = slices.Clone(s.Perspectives)
	out.Editing = s.Editing.Clone()
	return out
}

// HasPerspective reports whether name is in the perspective list.
func (s State) HasPerspective(name string) bool {
	return slices.Contains(s.Perspectives, name)
}

func SetNewDomainDraft(s State, name, domainType string) (State, []Intent) {
	out := s.clone()
	out.NewDomainDraft = DomainDraft{Name: name, Type: domainType}
	return out, nil
}

func SetNewPerspectiveDraft(s State, name string) (State, []Intent) {
	out := s.clone()
	out.NewPerspectiveDraft = name
	return out, nil
}

// CreateDomain issues a create for the current draft. An empty name or an
// unknown type makes it a silent no-op.
func CreateDomain(s State) (State, []Intent) {
	t, ok := models.ParseDomainType(s.NewDomainDraft.Type)
	if !ok {
		return s.clone(), nil
	}
	payload, err := models.NewCreatePayload(s.NewDomainDraft.Name, t)
	if err != nil {
		return s.clone(), nil
	}
	return s.clone(), []Intent{CreateIntent{Payload: payload}}
}

// ApplyCreateResult folds a finished create into the state. On success the
// draft resets; on failure it is left as the user last typed it.
func ApplyCreateResult(s State, payload models.CreatePayload, err error) (State, []Intent) {
	out := s.clone()
	if err != nil {
		return out, []Intent{NotifyIntent{Notification: failureNotification("add")}}
	}
	out.NewDomainDraft = DomainDraft{}
	return out, []Intent{NotifyIntent{Notification: Notification{
		Title:       "Domain added",
		Description: payload.DomainName + " has been added successfully.",
		Severity:    SeverityNormal,
	}}}
}

// UpdateDomain issues an update of domainID with record.
func UpdateDomain(s State, domainID id.DomainID, record *models.Domain) (State, []Intent) {
	if record == nil {
		return s.clone(), nil
	}
	return s.clone(), []Intent{UpdateIntent{ID: domainID, Record: record.Clone()}}
}

// SaveEdit issues an update with the open edit draft.
func SaveEdit(s State) (State, []Intent) {
	if !s.EditOpen || s.Editing == nil {
		return s.clone(), nil
	}
	return UpdateDomain(s, s.Editing.ID, s.Editing)
}

// ApplyUpdateResult folds a finished update into the state. Success closes
// the dialog and clears the draft; failure keeps both.
func ApplyUpdateResult(s State, record *models.Domain, err error) (State, []Intent) {
	out := s.clone()
	if err != nil {
		return out, []Intent{NotifyIntent{Notification: failureNotification("update")}}
	}
	out.Editing = nil
	out.EditOpen = false
	return out, []Intent{NotifyIntent{Notification: Notification{
		Title:       "Domain updated",
		Description: record.DomainName + " has been updated successfully.",
		Severity:    SeverityNormal,
	}}}
}

// DeleteDomain issues a delete. There is no confirmation step.
func DeleteDomain(s State, domainID id.DomainID) (State, []Intent) {
	return s.clone(), []Intent{DeleteIntent{ID: domainID}}
}

func ApplyDeleteResult(s State, err error) (State, []Intent) {
	out := s.clone()
	if err != nil {
		return out, []Intent{NotifyIntent{Notification: failureNotification("delete")}}
	}
	return out, []Intent{NotifyIntent{Notification: Notification{
		Title:       "Domain deleted",
		Description: "The domain has been deleted successfully.",
		Severity:    SeverityNormal,
	}}}
}

// AddPerspective appends name to the local list and clears the draft. Blank
// or already present names are ignored. Stored domains are not touched.
func AddPerspective(s State, name string) (State, []Intent) {
	name = strings.TrimSpace(name)
	if name == "" || s.HasPerspective(name) {
		return s.clone(), nil
	}
	out := s.clone()
	out.Perspectives = append(out.Perspectives, name)
	out.NewPerspectiveDraft = ""
	return out, nil
}

// RemovePerspective drops name from the local list. Default cannot be
// removed. Data stored under name stays in the store and shows again if the
// name is re-added.
func RemovePerspective(s State, name string) (State, []Intent) {
	if name == models.DefaultPerspective || !s.HasPerspective(name) {
		return s.clone(), nil
	}
	out := s.clone()
	out.Perspectives = pstrings.Without(out.Perspectives, name)
	if out.SelectedPerspective == name {
		out.SelectedPerspective = models.DefaultPerspective
	}
	return out, nil
}

func SelectPerspective(s State, name string) (State, []Intent) {
	out := s.clone()
	if s.HasPerspective(name) {
		out.SelectedPerspective = name
	}
	return out, nil
}

// BeginEdit opens the edit dialog on a deep copy of d, replacing any draft
// left from an earlier dismissal.
func BeginEdit(s State, d *models.Domain) (State, []Intent) {
	if d == nil {
		return s.clone(), nil
	}
	out := s.clone()
	out.Editing = d.Clone()
	out.EditOpen = true
	return out, nil
}

// SetEditingDraftField writes value at [selected perspective][particle] of
// the draft, creating the branch if needed. Every other leaf is kept.
func SetEditingDraftField(s State, particle, value string) (State, []Intent) {
	if !s.EditOpen || s.Editing == nil {
		return s.clone(), nil
	}
	out := s.clone()
	out.Editing.Perspectives = out.Editing.Perspectives.WithParticle(s.SelectedPerspective, particle, value)
	return out, nil
}

// DismissEdit closes the dialog without saving. The draft is kept until the
// next BeginEdit overwrites it.
func DismissEdit(s State) (State, []Intent) {
	out := s.clone()
	out.EditOpen = false
	return out, nil
}

func failureNotification(verb string) Notification {
	return Notification{
		Title:       "Error",
		Description: "Failed to " + verb + " domain. Please try again.",
		Severity:    SeverityDestructive,
	}
}
