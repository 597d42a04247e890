package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Nick   string `form:"nick" validate:"min=2,max=5"`
	Secret string `form:"secret" validate:"required,eqfield=Again"`
	Again  string `form:"again"`
}

func (signup) Messages() map[string]string {
	return map[string]string{"secret.eqfield": "Secrets differ"}
}

type plain struct {
	Title string `validate:"min=4"`
}

func TestStruct_Valid(t *testing.T) {
	errs := Struct(&signup{Nick: "abc", Secret: "x", Again: "x"})
	assert.True(t, errs.OK())
}

func TestStruct_ReportsEveryField(t *testing.T) {
	errs := Struct(&signup{Nick: "a", Secret: "", Again: "y"})

	assert.False(t, errs.OK())
	assert.Equal(t, "Field must be at least 2 characters long.", errs["nick"])
	assert.Equal(t, "This field is required.", errs["secret"])
	assert.Len(t, errs, 2)
}

func TestStruct_UsesOverrideMessage(t *testing.T) {
	errs := Struct(&signup{Nick: "abc", Secret: "x", Again: "y"})
	assert.Equal(t, Errors{"secret": "Secrets differ"}, errs)
}

func TestStruct_MaxAndRuneLength(t *testing.T) {
	errs := Struct(&signup{Nick: "ééééé", Secret: "x", Again: "x"})
	assert.True(t, errs.OK(), "five runes must fit max=5 even though they are ten bytes")

	errs = Struct(&signup{Nick: strings.Repeat("n", 6), Secret: "x", Again: "x"})
	assert.Equal(t, "Field cannot be longer than 5 characters.", errs["nick"])
}

func TestStruct_FallsBackToStructFieldName(t *testing.T) {
	errs := Struct(&plain{Title: "abc"})
	assert.Contains(t, errs, "Title")
}

func TestStruct_PanicsOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { Struct("nope") })
}
