package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned by UpdateField for a name that is not a scalar
// profile field.
var ErrUnknownField = errors.New("unknown profile field")

// Scalar field names, matching the JSON names sent to the webhook.
const (
	FieldFullName            = "fullName"
	FieldProfessionalSummary = "professionalSummary"
	FieldDesiredRole         = "desiredRole"
	fieldSkills              = "skills"
)

// Fields lists the names accepted by UpdateField.
var Fields = []string{FieldFullName, FieldProfessionalSummary, FieldDesiredRole}

// Profile is the user's job-seeking record, sent with every query.
// Skills are unique (exact match) and kept in insertion order.
type Profile struct {
	FullName            string   `json:"fullName"`
	ProfessionalSummary string   `json:"professionalSummary"`
	Skills              []string `json:"skills"`
	DesiredRole         string   `json:"desiredRole"`
}

// Default returns the profile seeded on first run.
func Default() Profile {
	return Profile{
		FullName:            "Jane Doe",
		ProfessionalSummary: "A passionate frontend developer with 5 years of experience in React, TypeScript, and building scalable web applications.",
		Skills:              []string{"React", "TypeScript", "Tailwind CSS", "Node.js", "UI/UX Design"},
		DesiredRole:         "Senior Frontend Engineer",
	}
}

// UpdateField replaces a single scalar field.
func (p *Profile) UpdateField(name, value string) error {
	switch name {
	case FieldFullName:
		p.FullName = value
	case FieldProfessionalSummary:
		p.ProfessionalSummary = value
	case FieldDesiredRole:
		p.DesiredRole = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Field returns the value of a scalar field.
func (p Profile) Field(name string) (string, error) {
	switch name {
	case FieldFullName:
		return p.FullName, nil
	case FieldProfessionalSummary:
		return p.ProfessionalSummary, nil
	case FieldDesiredRole:
		return p.DesiredRole, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// AddSkill appends the trimmed skill. Empty input and exact duplicates are
// ignored. Reports whether the list changed.
func (p *Profile) AddSkill(raw string) bool {
	skill := strings.TrimSpace(raw)
	if skill == "" || p.HasSkill(skill) {
		return false
	}
	p.Skills = append(p.Skills, skill)
	return true
}

// RemoveSkill drops every entry equal to target. Reports whether the list changed.
func (p *Profile) RemoveSkill(target string) bool {
	kept := p.Skills[:0:0]
	for _, s := range p.Skills {
		if s != target {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(p.Skills) {
		return false
	}
	p.Skills = kept
	return true
}

func (p Profile) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Skills is never nil in the copy so the profile
// always encodes as a JSON array.
func (p Profile) Clone() Profile {
	cp := p
	cp.Skills = make([]string, len(p.Skills))
	copy(cp.Skills, p.Skills)
	return cp
}
