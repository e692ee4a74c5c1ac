package main

import (
	"testing"

	"reviewrot/internal/config"
)

func intp(v int) *int { return &v }

func TestValidateArguments_AgeFilterAllOrNothing(t *testing.T) {
	if err := validateArguments(config.Arguments{}); err != nil {
		t.Errorf("Expected empty arguments to validate, got: %v", err)
	}

	full := config.Arguments{State: "older", Value: intp(2), Duration: "d"}
	if err := validateArguments(full); err != nil {
		t.Errorf("Expected complete age filter to validate, got: %v", err)
	}

	partial := config.Arguments{State: "older"}
	if err := validateArguments(partial); err == nil {
		t.Error("Expected error for partial age filter, got nil")
	}

	partial = config.Arguments{Value: intp(2), Duration: "d"}
	if err := validateArguments(partial); err == nil {
		t.Error("Expected error for age filter without state, got nil")
	}
}

func TestValidateArguments_ZeroValueIsPresent(t *testing.T) {
	full := config.Arguments{State: "older", Value: intp(0), Duration: "d"}
	if err := validateArguments(full); err != nil {
		t.Errorf("Expected value 0 to count as a complete age filter, got: %v", err)
	}
}

func TestValidateArguments_Enums(t *testing.T) {
	bad := config.Arguments{State: "ancient", Value: intp(1), Duration: "d"}
	if err := validateArguments(bad); err == nil {
		t.Error("Expected error for invalid state, got nil")
	}

	bad = config.Arguments{State: "older", Value: intp(1), Duration: "weeks"}
	if err := validateArguments(bad); err == nil {
		t.Error("Expected error for invalid duration, got nil")
	}
}

func TestValidateArguments_ShowLastComment(t *testing.T) {
	zero := 0
	if err := validateArguments(config.Arguments{ShowLastComment: &zero}); err != nil {
		t.Errorf("Expected zero to be accepted, got: %v", err)
	}

	negative := -1
	if err := validateArguments(config.Arguments{ShowLastComment: &negative}); err == nil {
		t.Error("Expected error for negative show-last-comment, got nil")
	}
}
