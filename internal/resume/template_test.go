package resume

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/resumate/resumate/internal/apperr"
)

func TestTemplateEncodesEmptyListsNotNull(t *testing.T) {
	b, err := json.Marshal(NewTemplate())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, k := range Keys() {
		require.Contains(t, raw, string(k))
	}
	assert.JSONEq(t, `{"isVisible":false,"entries":[]}`, string(raw["languages"]))
}

func TestLegacyLanguagesArrayJSON(t *testing.T) {
	in := `{"languages":[{"language":"German","languageLevel":"B2"}],"skills":null}`
	var tpl Template
	require.NoError(t, json.Unmarshal([]byte(in), &tpl))

	assert.True(t, tpl.Languages.IsVisible)
	require.Len(t, tpl.Languages.Entries, 1)
	assert.Equal(t, "German", tpl.Languages.Entries[0].Language)
	assert.NotNil(t, tpl.Skills.Entries)
	assert.False(t, tpl.Skills.IsVisible)
}

func TestLegacyLanguagesArrayBSON(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"languages": bson.A{bson.M{"language": "French", "languageLevel": "C1"}},
		"education": bson.M{"isVisible": true, "entries": bson.A{bson.M{"school": "MIT"}}},
	})
	require.NoError(t, err)

	var tpl Template
	require.NoError(t, bson.Unmarshal(raw, &tpl))
	assert.True(t, tpl.Languages.IsVisible)
	require.Len(t, tpl.Languages.Entries, 1)
	assert.Equal(t, "C1", tpl.Languages.Entries[0].LanguageLevel)
	require.Len(t, tpl.Education.Entries, 1)
	assert.Equal(t, "MIT", tpl.Education.Entries[0].School)
}

func TestSetAndClear(t *testing.T) {
	tpl := NewTemplate()
	require.NoError(t, tpl.Set(KeySkills, []Skill{{Domain: "Backend", SubSkills: []string{"Go"}, SkillLevel: "Expert"}}))
	assert.True(t, tpl.Visible(KeySkills))
	assert.Len(t, tpl.Skills.Entries, 1)

	require.NoError(t, tpl.Set(KeyInterests, Section[Interest]{IsVisible: false}))
	assert.False(t, tpl.Visible(KeyInterests))
	assert.NotNil(t, tpl.Interests.Entries)

	require.Error(t, tpl.Set(KeySkills, []Course{}))
	require.Error(t, tpl.Set("bogus", nil))

	require.NoError(t, tpl.Clear(KeySkills))
	assert.False(t, tpl.Visible(KeySkills))
	assert.Empty(t, tpl.Skills.Entries)
	assert.NotNil(t, tpl.Skills.Entries)
}

func TestCloneIsDeep(t *testing.T) {
	tpl := NewTemplate()
	require.NoError(t, tpl.Set(KeySkills, []Skill{{Domain: "Backend", SubSkills: []string{"Go"}}}))
	cp := tpl.Clone()
	cp.Skills.Entries[0].SubSkills[0] = "Rust"
	assert.Equal(t, "Go", tpl.Skills.Entries[0].SubSkills[0])
}

func TestValidateSection(t *testing.T) {
	ok := []Education{{School: "MIT", Degree: "BSc", StartDate: "2019", EndDate: "2023", Location: "Boston", CGPA: "3.9/4"}}
	require.NoError(t, ValidateSection(KeyEducation, ok))

	bad := []Education{ok[0], {School: "X", Degree: "BSc", StartDate: "2019", EndDate: "2023", Location: "Y", CGPA: "A+"}}
	err := ValidateSection(KeyEducation, bad)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "education[1].cgpa", ve.Field)

	err = ValidateSection(KeySkills, []Skill{{Domain: "Backend", SkillLevel: "Expert"}})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "skills[0].subSkills", ve.Field)

	err = ValidateSection(KeyCertifications, Section[Certification]{Entries: []Certification{{
		CertificateName: "CKA", IssuingOrganization: "CNCF", IssueDate: "2024", CredentialURL: "not a url",
	}}})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "certifications[0].credentialURL", ve.Field)
}

func TestValidatePersonalDetails(t *testing.T) {
	pd := PersonalDetails{
		FullName: "Ada Lovelace", ProfessionalTitle: "Engineer", Email: "ada@example.com",
		Phone: "+44 7946 0958", Location: "London", GitHub: "https://github.com/ada",
	}
	require.NoError(t, ValidatePersonalDetails(pd))

	pd.Phone = "call me"
	var ve *apperr.ValidationError
	require.ErrorAs(t, ValidatePersonalDetails(pd), &ve)
	assert.Equal(t, "personalDetails.phone", ve.Field)
}

func TestMustRegisterPanicsOnRejectedTag(t *testing.T) {
	assert.Panics(t, func() { mustRegister(validator.New(), "", regexp.MustCompile(`.`)) })
	assert.NotPanics(t, func() { mustRegister(validator.New(), "digits", regexp.MustCompile(`^[0-9]+$`)) })
	assert.NotNil(t, validatorInstance())
}
