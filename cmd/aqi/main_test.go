package main

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/delhiaqi/backend/internal/domain"
)

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "aqi"}
	registerFlags(cmd)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return cmd
}

func TestProfileFromFlags(t *testing.T) {
	cmd := newFlagCommand(t, "--age", "62", "--gender", "1", "--parent", "--concern", "8", "--privacy")

	profile, privacy, err := profileFromFlags(cmd)
	if err != nil {
		t.Fatalf("profileFromFlags: %v", err)
	}
	if profile.Age != 62 || profile.GenderEnc != 1 || profile.ParentEnc != 1 {
		t.Errorf("profile = %+v", profile)
	}
	if profile.ConcernScore == nil || *profile.ConcernScore != 8 {
		t.Errorf("ConcernScore = %v, want 8", profile.ConcernScore)
	}
	if profile.HasRespiratoryIssue != nil {
		t.Errorf("HasRespiratoryIssue = %v, want unset", *profile.HasRespiratoryIssue)
	}
	if !privacy {
		t.Error("privacy = false")
	}
}

func TestProfileFromFlagsInvalid(t *testing.T) {
	cmd := newFlagCommand(t, "--age", "130")

	_, _, err := profileFromFlags(cmd)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "age" {
		t.Errorf("err = %v, want age ValidationError", err)
	}
}
