package resume

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// SectionKey names one addressable slice of a Template.
type SectionKey string

const (
	KeyPersonalDetails SectionKey = "personalDetails"
	KeyEducation       SectionKey = "education"
	KeyExperiences     SectionKey = "experiences"
	KeyProjects        SectionKey = "projects"
	KeyAchievements    SectionKey = "achievements"
	KeyOrganizations   SectionKey = "organizations"
	KeyInterests       SectionKey = "interests"
	KeyCourses         SectionKey = "courses"
	KeySkills          SectionKey = "skills"
	KeyPublications    SectionKey = "publications"
	KeyCertifications  SectionKey = "certifications"
	KeyLanguages       SectionKey = "languages"
)

// Keys lists every section key in display order.
func Keys() []SectionKey {
	return []SectionKey{
		KeyPersonalDetails, KeyEducation, KeyExperiences, KeyProjects,
		KeyAchievements, KeyOrganizations, KeyInterests, KeyCourses,
		KeySkills, KeyPublications, KeyCertifications, KeyLanguages,
	}
}

// Section is a list of entries plus a visibility flag.
type Section[T any] struct {
	IsVisible bool `json:"isVisible" bson:"isVisible"`
	Entries   []T  `json:"entries" bson:"entries"`
}

type sectionFields[T any] struct {
	IsVisible bool `json:"isVisible" bson:"isVisible"`
	Entries   []T  `json:"entries" bson:"entries"`
}

func (s Section[T]) normalized() Section[T] {
	if s.Entries == nil {
		s.Entries = []T{}
	}
	return s
}

// UnmarshalJSON accepts either {isVisible, entries} or a legacy bare array.
func (s *Section[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = Section[T]{Entries: []T{}}
		return nil
	case b[0] == '[':
		var entries []T
		if err := json.Unmarshal(b, &entries); err != nil {
			return err
		}
		*s = Section[T]{IsVisible: len(entries) > 0, Entries: entries}.normalized()
		return nil
	}
	var raw sectionFields[T]
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = Section[T](raw).normalized()
	return nil
}

// UnmarshalBSONValue is the BSON counterpart of UnmarshalJSON, so documents written
// with the legacy array encoding still load.
func (s *Section[T]) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*s = Section[T]{Entries: []T{}}
		return nil
	case bsontype.Array:
		var entries []T
		if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&entries); err != nil {
			return err
		}
		*s = Section[T]{IsVisible: len(entries) > 0, Entries: entries}.normalized()
		return nil
	case bsontype.EmbeddedDocument:
		var raw sectionFields[T]
		if err := bson.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = Section[T](raw).normalized()
		return nil
	}
	return fmt.Errorf("resume: cannot decode section from bson %s", t)
}

// Template is the structured resume content stored under resumeData.
type Template struct {
	PersonalDetails PersonalDetails        `json:"personalDetails" bson:"personalDetails"`
	Education       Section[Education]     `json:"education" bson:"education"`
	Experiences     Section[Experience]    `json:"experiences" bson:"experiences"`
	Projects        Section[Project]       `json:"projects" bson:"projects"`
	Achievements    Section[Achievement]   `json:"achievements" bson:"achievements"`
	Organizations   Section[Organization]  `json:"organizations" bson:"organizations"`
	Interests       Section[Interest]      `json:"interests" bson:"interests"`
	Courses         Section[Course]        `json:"courses" bson:"courses"`
	Skills          Section[Skill]         `json:"skills" bson:"skills"`
	Publications    Section[Publication]   `json:"publications" bson:"publications"`
	Certifications  Section[Certification] `json:"certifications" bson:"certifications"`
	Languages       Section[Language]      `json:"languages" bson:"languages"`
}

// NewTemplate returns the client-side default: every section present, hidden and empty.
func NewTemplate() *Template {
	t := &Template{}
	t.Normalize()
	return t
}

// Normalize makes every section's entries non-nil.
func (t *Template) Normalize() {
	t.Education = t.Education.normalized()
	t.Experiences = t.Experiences.normalized()
	t.Projects = t.Projects.normalized()
	t.Achievements = t.Achievements.normalized()
	t.Organizations = t.Organizations.normalized()
	t.Interests = t.Interests.normalized()
	t.Courses = t.Courses.normalized()
	t.Skills = t.Skills.normalized()
	t.Publications = t.Publications.normalized()
	t.Certifications = t.Certifications.normalized()
	t.Languages = t.Languages.normalized()
}

// Clone returns a deep copy.
func (t *Template) Clone() *Template {
	out := &Template{}
	b, err := json.Marshal(t)
	if err == nil {
		err = json.Unmarshal(b, out)
	}
	if err != nil {
		// every field is a plain string/slice; this cannot fail
		panic(fmt.Sprintf("resume: clone template: %v", err))
	}
	return out
}

// Set replaces one slice of the template. Sections accept either a Section[T] or
// a bare []T (which is stored visible); personal details accept PersonalDetails.
func (t *Template) Set(key SectionKey, v any) error {
	switch key {
	case KeyPersonalDetails:
		pd, ok := v.(PersonalDetails)
		if !ok {
			return fmt.Errorf("resume: %s expects PersonalDetails, got %T", key, v)
		}
		t.PersonalDetails = pd
		return nil
	case KeyEducation:
		return setSection(&t.Education, key, v)
	case KeyExperiences:
		return setSection(&t.Experiences, key, v)
	case KeyProjects:
		return setSection(&t.Projects, key, v)
	case KeyAchievements:
		return setSection(&t.Achievements, key, v)
	case KeyOrganizations:
		return setSection(&t.Organizations, key, v)
	case KeyInterests:
		return setSection(&t.Interests, key, v)
	case KeyCourses:
		return setSection(&t.Courses, key, v)
	case KeySkills:
		return setSection(&t.Skills, key, v)
	case KeyPublications:
		return setSection(&t.Publications, key, v)
	case KeyCertifications:
		return setSection(&t.Certifications, key, v)
	case KeyLanguages:
		return setSection(&t.Languages, key, v)
	}
	return fmt.Errorf("resume: unknown section %q", key)
}

func setSection[T any](dst *Section[T], key SectionKey, v any) error {
	switch x := v.(type) {
	case Section[T]:
		*dst = x.normalized()
	case []T:
		*dst = Section[T]{IsVisible: true, Entries: x}.normalized()
	default:
		return fmt.Errorf("resume: %s expects %T, got %T", key, []T(nil), v)
	}
	return nil
}

// Clear resets one slice: sections become hidden and empty, personal details zero.
func (t *Template) Clear(key SectionKey) error {
	if key == KeyPersonalDetails {
		t.PersonalDetails = PersonalDetails{}
		return nil
	}
	if !key.valid() {
		return fmt.Errorf("resume: unknown section %q", key)
	}
	switch key {
	case KeyEducation:
		t.Education = Section[Education]{Entries: []Education{}}
	case KeyExperiences:
		t.Experiences = Section[Experience]{Entries: []Experience{}}
	case KeyProjects:
		t.Projects = Section[Project]{Entries: []Project{}}
	case KeyAchievements:
		t.Achievements = Section[Achievement]{Entries: []Achievement{}}
	case KeyOrganizations:
		t.Organizations = Section[Organization]{Entries: []Organization{}}
	case KeyInterests:
		t.Interests = Section[Interest]{Entries: []Interest{}}
	case KeyCourses:
		t.Courses = Section[Course]{Entries: []Course{}}
	case KeySkills:
		t.Skills = Section[Skill]{Entries: []Skill{}}
	case KeyPublications:
		t.Publications = Section[Publication]{Entries: []Publication{}}
	case KeyCertifications:
		t.Certifications = Section[Certification]{Entries: []Certification{}}
	case KeyLanguages:
		t.Languages = Section[Language]{Entries: []Language{}}
	}
	return nil
}

// Visible reports whether the keyed section is shown. Personal details always are.
func (t *Template) Visible(key SectionKey) bool {
	switch key {
	case KeyPersonalDetails:
		return true
	case KeyEducation:
		return t.Education.IsVisible
	case KeyExperiences:
		return t.Experiences.IsVisible
	case KeyProjects:
		return t.Projects.IsVisible
	case KeyAchievements:
		return t.Achievements.IsVisible
	case KeyOrganizations:
		return t.Organizations.IsVisible
	case KeyInterests:
		return t.Interests.IsVisible
	case KeyCourses:
		return t.Courses.IsVisible
	case KeySkills:
		return t.Skills.IsVisible
	case KeyPublications:
		return t.Publications.IsVisible
	case KeyCertifications:
		return t.Certifications.IsVisible
	case KeyLanguages:
		return t.Languages.IsVisible
	}
	return false
}

func (k SectionKey) valid() bool {
	for _, known := range Keys() {
		if k == known {
			return true
		}
	}
	return false
}

// ParseSectionKey validates a user-supplied key.
func ParseSectionKey(s string) (SectionKey, error) {
	k := SectionKey(s)
	if !k.valid() {
		return "", fmt.Errorf("resume: unknown section %q", s)
	}
	return k, nil
}
