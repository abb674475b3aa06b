package invitation

import (
	"reflect"
	"testing"
	"time"
)

func TestStatusTerminal(t *testing.T) {
	cases := map[Status]bool{
		StatusPending:  false,
		StatusAccepted: true,
		StatusDeclined: true,
		StatusRevoked:  true,
		StatusExpired:  true,
		Status("bogus"): false,
	}

	for status, want := range cases {
		if have := status.Terminal(); have != want {
			t.Errorf("%s: have %v, want %v", status, have, want)
		}
	}
}

func TestInvitationCanTransition(t *testing.T) {
	pending := Invitation{Status: StatusPending}

	for _, next := range []Status{
		StatusAccepted,
		StatusDeclined,
		StatusRevoked,
		StatusExpired,
	} {
		if !pending.CanTransition(next) {
			t.Errorf("pending -> %s: have false, want true", next)
		}
	}

	if pending.CanTransition(StatusPending) {
		t.Error("pending -> pending: have true, want false")
	}

	for _, from := range []Status{
		StatusAccepted,
		StatusDeclined,
		StatusRevoked,
		StatusExpired,
	} {
		i := Invitation{Status: from}

		for _, next := range []Status{
			StatusPending,
			StatusAccepted,
			StatusDeclined,
			StatusRevoked,
			StatusExpired,
		} {
			if from == next {
				continue
			}

			if i.CanTransition(next) {
				t.Errorf("%s -> %s: have true, want false", from, next)
			}
		}
	}
}

func TestInvitationValidate(t *testing.T) {
	valid := Invitation{
		SpaceID:      "space-1",
		InviteeEmail: "invitee@hivenote.com",
		Role:         RoleMember,
		Status:       StatusPending,
	}

	if err := valid.Validate(); err != nil {
		t.Fatal(err)
	}

	cases := []Invitation{
		{InviteeEmail: "invitee@hivenote.com", Role: RoleMember, Status: StatusPending},
		{SpaceID: "space-1", Role: RoleMember, Status: StatusPending},
		{SpaceID: "space-1", InviteeEmail: "nope", Role: RoleMember, Status: StatusPending},
		{SpaceID: "space-1", InviteeEmail: "invitee@hivenote.com", Role: Role("owner"), Status: StatusPending},
		{SpaceID: "space-1", InviteeEmail: "invitee@hivenote.com", Role: RoleAdmin, Status: Status("open")},
	}

	for n, i := range cases {
		if err := i.Validate(); !IsInvalidInvitation(err) {
			t.Errorf("case %d: have %v, want ErrInvalidInvitation", n, err)
		}
	}
}

func TestListFind(t *testing.T) {
	ls := List{
		{ID: "1"},
		{ID: "2"},
		{ID: "3"},
	}

	if have := ls.Find("2"); have != ls[1] {
		t.Errorf("have %v, want %v", have, ls[1])
	}

	if have := ls.Find("4"); have != nil {
		t.Errorf("have %v, want nil", have)
	}
}

func TestListOrder(t *testing.T) {
	now := time.Now().UTC()

	ls := List{
		{ID: "old", CreatedAt: now.Add(-time.Hour)},
		{ID: "new", CreatedAt: now},
		{ID: "older", CreatedAt: now.Add(-2 * time.Hour)},
	}

	ls.Swap(0, 1)

	if !ls.Less(0, 1) {
		t.Error("have false, want newest first")
	}

	if have, want := ls.IDs(), []string{"new", "old", "older"}; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
}
