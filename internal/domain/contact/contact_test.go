package contact

import "testing"

func TestKeyOf_ScopedByTeam(t *testing.T) {
	t.Parallel()

	set := KeySet{}
	set.Add(KeyOf("team-a", "John Smith"))

	if !set.Has(KeyOf("team-a", "  john SMITH")) {
		t.Fatalf("expected case-insensitive match within the same team")
	}
	if set.Has(KeyOf("team-b", "John Smith")) {
		t.Fatalf("same name on another team must not match")
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"true", "YES", "y", "1"} {
		if v, err := ParseBool(raw); err != nil || !v {
			t.Fatalf("ParseBool(%q) = %v, %v; want true", raw, v, err)
		}
	}
	for _, raw := range []string{"", "false", "No", "n", "0"} {
		if v, err := ParseBool(raw); err != nil || v {
			t.Fatalf("ParseBool(%q) = %v, %v; want false", raw, v, err)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Fatalf("expected invalid boolean to fail")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := (Contact{Name: "Jane"}).Validate(); err == nil {
		t.Fatalf("expected missing team to fail")
	}
	if err := (Contact{TeamID: "t1"}).Validate(); err == nil {
		t.Fatalf("expected missing name to fail")
	}
	if err := (Contact{Name: "Jane", TeamID: "t1", Costs: CreditCosts{Phone: -1}}).Validate(); err == nil {
		t.Fatalf("expected negative cost to fail")
	}
}

func TestPatchApply(t *testing.T) {
	t.Parallel()

	c := Contact{ID: "c1", Name: "Jane", Role: "Coach", Phone: "123"}
	patch := NewPatch("c1")
	patch.Set(FieldRole, "Head Coach")
	patch.Clear(FieldPhone)
	patch.Set(FieldIsEmailVerified, true)
	patch.Apply(&c)

	if c.Role != "Head Coach" || c.Phone != "" || !c.IsEmailVerified {
		t.Fatalf("unexpected contact after patch: %+v", c)
	}
}
