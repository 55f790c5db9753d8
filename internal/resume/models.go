package resume

import "time"

// DefaultTitle is used when a resume is created without a title.
const DefaultTitle = "My Resume"

// Document is the persisted unit: one resume owned by one identity.
type Document struct {
	ID          string    `json:"id" bson:"_id"`
	OwnerID     string    `json:"ownerId" bson:"ownerId"`
	Title       string    `json:"title" bson:"title"`
	Content     Template  `json:"resumeData" bson:"resumeData"`
	Version     int64     `json:"version" bson:"version"`
	LastUpdated time.Time `json:"lastUpdated" bson:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Summary is the metadata projection returned by list.
type Summary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Version     int64     `json:"version"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d *Document) Summary() Summary {
	return Summary{
		ID:          d.ID,
		Title:       d.Title,
		Version:     d.Version,
		LastUpdated: d.LastUpdated,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// PersonalDetails is the singleton header section.
type PersonalDetails struct {
	FullName          string `json:"fullName" bson:"fullName" validate:"required"`
	ProfessionalTitle string `json:"professionalTitle" bson:"professionalTitle" validate:"required"`
	Email             string `json:"email" bson:"email" validate:"required,email"`
	Phone             string `json:"phone" bson:"phone" validate:"required,phone"`
	Location          string `json:"location" bson:"location" validate:"required"`
	Summary           string `json:"summary,omitempty" bson:"summary,omitempty" validate:"max=300"`
	LinkedIn          string `json:"linkedin,omitempty" bson:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub            string `json:"github,omitempty" bson:"github,omitempty" validate:"omitempty,url"`
	Portfolio         string `json:"portfolio,omitempty" bson:"portfolio,omitempty" validate:"omitempty,url"`
}

type Education struct {
	School      string `json:"school" bson:"school" validate:"required"`
	Degree      string `json:"degree" bson:"degree" validate:"required"`
	StartDate   string `json:"startDate" bson:"startDate" validate:"required"`
	EndDate     string `json:"endDate" bson:"endDate" validate:"required"`
	Location    string `json:"location" bson:"location" validate:"required"`
	CGPA        string `json:"cgpa" bson:"cgpa" validate:"required,cgpa"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

type Experience struct {
	Employer       string `json:"employer" bson:"employer" validate:"required"`
	JobTitle       string `json:"jobTitle" bson:"jobTitle" validate:"required"`
	EmploymentType string `json:"employmentType" bson:"employmentType" validate:"required"`
	StartDate      string `json:"startDate" bson:"startDate" validate:"required"`
	EndDate        string `json:"endDate" bson:"endDate" validate:"required"`
	Location       string `json:"location" bson:"location" validate:"required"`
	Description    string `json:"description" bson:"description" validate:"required"`
}

type Project struct {
	ProjectTitle string `json:"projectTitle" bson:"projectTitle" validate:"required"`
	SubTitle     string `json:"subTitle" bson:"subTitle" validate:"required"`
	ProjectLink  string `json:"projectLink,omitempty" bson:"projectLink,omitempty" validate:"omitempty,url"`
	StartDate    string `json:"startDate" bson:"startDate" validate:"required"`
	EndDate      string `json:"endDate" bson:"endDate" validate:"required"`
	Description  string `json:"description" bson:"description" validate:"required"`
}

type Achievement struct {
	Title       string `json:"title" bson:"title" validate:"required"`
	Issuer      string `json:"issuer" bson:"issuer" validate:"required"`
	Date        string `json:"date" bson:"date" validate:"required"`
	Location    string `json:"location" bson:"location" validate:"required"`
	Description string `json:"description" bson:"description" validate:"required"`
}

type Organization struct {
	OrgName     string `json:"orgName" bson:"orgName" validate:"required"`
	Position    string `json:"position" bson:"position" validate:"required"`
	StartDate   string `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

type Interest struct {
	Interest       string `json:"interest" bson:"interest" validate:"required"`
	AdditionalInfo string `json:"additionalInfo,omitempty" bson:"additionalInfo,omitempty"`
}

type Course struct {
	CourseTitle string `json:"courseTitle" bson:"courseTitle" validate:"required"`
	Institution string `json:"institution" bson:"institution" validate:"required"`
	StartDate   string `json:"startDate" bson:"startDate" validate:"required"`
	EndDate     string `json:"endDate" bson:"endDate" validate:"required"`
	Location    string `json:"location" bson:"location" validate:"required"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"max=500"`
}

type Skill struct {
	Domain      string   `json:"domain" bson:"domain" validate:"required"`
	SubSkills   []string `json:"subSkills" bson:"subSkills" validate:"min=1,dive,required"`
	SkillLevel  string   `json:"skillLevel" bson:"skillLevel" validate:"required"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
}

type Language struct {
	Language       string `json:"language" bson:"language" validate:"required"`
	LanguageLevel  string `json:"languageLevel" bson:"languageLevel" validate:"required"`
	AdditionalInfo string `json:"additionalInfo,omitempty" bson:"additionalInfo,omitempty"`
}

type Publication struct {
	Title       string `json:"title" bson:"title" validate:"required"`
	Publisher   string `json:"publisher" bson:"publisher" validate:"required"`
	Date        string `json:"date" bson:"date" validate:"required"`
	Description string `json:"description" bson:"description" validate:"required"`
}

type Certification struct {
	CertificateName     string `json:"certificateName" bson:"certificateName" validate:"required"`
	IssuingOrganization string `json:"issuingOrganization" bson:"issuingOrganization" validate:"required"`
	IssueDate           string `json:"issueDate" bson:"issueDate" validate:"required"`
	CredentialURL       string `json:"credentialURL" bson:"credentialURL" validate:"required,url"`
	AdditionalInfo      string `json:"additionalInfo,omitempty" bson:"additionalInfo,omitempty"`
}
