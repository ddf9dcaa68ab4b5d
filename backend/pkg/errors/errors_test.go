package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsErrorType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{"malformed line", NewMalformedLine(3, "foo bar"), ErrorTypeParse, true},
		{"multiplicity", NewMultiplicity("Term", "id", 0), ErrorTypeConstruction, true},
		{"wrapped reference", fmt.Errorf("load go.obo: %w", NewUnresolvedReference("category", "GO:1", "GO:2")), ErrorTypeReference, true},
		{"wrong type", NewInvalidArgument("category", "nil"), ErrorTypeReference, false},
		{"plain error", fmt.Errorf("boom"), ErrorTypeParse, false},
		{"nil", nil, ErrorTypeParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsErrorType(tt.err, tt.errType))
		})
	}
}

func TestTypeOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewDuplicateID("relation", "is_a"))
	assert.Equal(t, ErrorTypeConstruction, TypeOf(err))
	assert.Equal(t, ErrorType(""), TypeOf(fmt.Errorf("untyped")))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `[parse] line 7: missing ": " separator: "foo bar"`, NewMalformedLine(7, "foo bar").Error())
	assert.Equal(t, "[reference] unknown relation: part_of (referenced from GO:0000002)",
		NewUnresolvedReference("relation", "part_of", "GO:0000002").Error())
	assert.Equal(t, "[reference] unknown category: GO:9", NewUnresolvedReference("category", "GO:9", "").Error())
}
