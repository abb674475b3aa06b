package invitation

import (
	"context"
	"testing"
)

type prepareFunc func(t *testing.T) (Service, *Mem)

func testServiceCreate(t *testing.T, p prepareFunc) {
	service, backend := p(t)
	backend.AddSpace("s1", "Weekend Plans")

	ctx := context.Background()

	i, err := service.Create(ctx, CreateInput{
		Email:   " Invitee@Hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	})
	if err != nil {
		t.Fatal(err)
	}

	if i.ID == "" {
		t.Error("have empty id, want server-assigned")
	}

	if have, want := i.Status, StatusPending; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if have, want := i.InviteeEmail, "invitee@hivenote.com"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if have, want := i.SpaceName, "Weekend Plans"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if !i.ExpiresAt.After(i.CreatedAt) {
		t.Error("have expiry before creation, want after")
	}

	_, err = service.Create(ctx, CreateInput{
		Email:   "invitee@hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	})
	if !IsConflict(err) {
		t.Errorf("have %v, want ErrConflict", err)
	}
}

func testServiceCreateAlreadyMember(t *testing.T, p prepareFunc) {
	service, backend := p(t)
	backend.AddMember("s1", "member@hivenote.com")

	_, err := service.Create(context.Background(), CreateInput{
		Email:   "member@hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	})
	if err == nil {
		t.Fatal("have nil, want error")
	}

	if !IsAlreadyMember(err) && !IsConflict(err) {
		t.Errorf("have %v, want already-member conflict", err)
	}
}

func testServiceCreateBulkPartial(t *testing.T, p prepareFunc) {
	service, backend := p(t)
	backend.AddMember("s1", "two@hivenote.com")

	res, err := service.CreateBulk(context.Background(), "s1", []BulkInput{
		{Email: "one@hivenote.com", Role: RoleMember},
		{Email: "two@hivenote.com", Role: RoleMember},
		{Email: "three@hivenote.com", Role: RoleAdmin},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(res.Successful), 2; have != want {
		t.Errorf("have %d, want %d", have, want)
	}

	if have, want := len(res.Failed), 1; have != want {
		t.Fatalf("have %d, want %d", have, want)
	}

	if have, want := res.Failed[0].Email, "two@hivenote.com"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if res.Failed[0].Reason == "" {
		t.Error("have empty reason, want populated")
	}
}

func testServiceAccept(t *testing.T, p prepareFunc) {
	service, _ := p(t)

	ctx := context.Background()

	i, err := service.Create(ctx, CreateInput{
		Email:   "invitee@hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	})
	if err != nil {
		t.Fatal(err)
	}

	accepted, err := service.Accept(ctx, i.ID)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := accepted.Status, StatusAccepted; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	// Terminal statuses permit no further transitions.
	if _, err := service.Accept(ctx, i.ID); !IsConflict(err) {
		t.Errorf("have %v, want ErrConflict", err)
	}

	if _, err := service.Decline(ctx, i.ID); !IsConflict(err) {
		t.Errorf("have %v, want ErrConflict", err)
	}

	// Accepting makes the invitee a member.
	_, err = service.Create(ctx, CreateInput{
		Email:   "invitee@hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	})
	if !IsAlreadyMember(err) && !IsConflict(err) {
		t.Errorf("have %v, want already-member conflict", err)
	}
}

func testServiceDecline(t *testing.T, p prepareFunc) {
	service, _ := p(t)

	ctx := context.Background()

	i, err := service.Create(ctx, CreateInput{
		Email:   "invitee@hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	})
	if err != nil {
		t.Fatal(err)
	}

	declined, err := service.Decline(ctx, i.ID)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := declined.Status, StatusDeclined; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if _, err := service.Accept(ctx, i.ID); !IsConflict(err) {
		t.Errorf("have %v, want ErrConflict", err)
	}
}

func testServiceRevoke(t *testing.T, p prepareFunc) {
	service, _ := p(t)

	ctx := context.Background()

	i, err := service.Create(ctx, CreateInput{
		Email:   "invitee@hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := service.Revoke(ctx, i.ID); err != nil {
		t.Fatal(err)
	}

	ls, err := service.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if have := ls.Find(i.ID); have != nil {
		t.Errorf("have %v, want revoked invitation gone", have)
	}

	if err := service.Revoke(ctx, i.ID); !IsNotFound(err) {
		t.Errorf("have %v, want ErrNotFound", err)
	}
}

func testServiceResend(t *testing.T, p prepareFunc) {
	service, _ := p(t)

	ctx := context.Background()

	i, err := service.Create(ctx, CreateInput{
		Email:   "invitee@hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	})
	if err != nil {
		t.Fatal(err)
	}

	resent, err := service.Resend(ctx, i.ID)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := resent.ID, i.ID; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if resent.ExpiresAt.Before(i.ExpiresAt) {
		t.Error("have shrunk expiry, want extended")
	}

	if _, err := service.Resend(ctx, "404"); !IsNotFound(err) {
		t.Errorf("have %v, want ErrNotFound", err)
	}
}

func testServicePending(t *testing.T, p prepareFunc) {
	service, _ := p(t)

	ctx := context.Background()

	ids := []string{}

	for _, addr := range []string{
		"one@hivenote.com",
		"two@hivenote.com",
		"three@hivenote.com",
	} {
		i, err := service.Create(ctx, CreateInput{
			Email:   addr,
			SpaceID: "s1",
			Role:    RoleMember,
		})
		if err != nil {
			t.Fatal(err)
		}

		ids = append(ids, i.ID)
	}

	ls, err := service.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(ls), 3; have != want {
		t.Fatalf("have %d, want %d", have, want)
	}

	// Newest first.
	if have, want := ls[0].ID, ids[2]; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServiceSpace(t *testing.T, p prepareFunc) {
	service, _ := p(t)

	ctx := context.Background()

	first, err := service.Create(ctx, CreateInput{
		Email:   "one@hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := service.Create(ctx, CreateInput{
		Email:   "two@hivenote.com",
		SpaceID: "s2",
		Role:    RoleMember,
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := service.Accept(ctx, first.ID); err != nil {
		t.Fatal(err)
	}

	ls, err := service.Space(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(ls), 1; have != want {
		t.Fatalf("have %d, want %d", have, want)
	}

	// The admin view keeps resolved invitations.
	if have, want := ls[0].Status, StatusAccepted; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServiceStats(t *testing.T, p prepareFunc) {
	service, _ := p(t)

	ctx := context.Background()

	first, err := service.Create(ctx, CreateInput{
		Email:   "one@hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := service.Create(ctx, CreateInput{
		Email:   "two@hivenote.com",
		SpaceID: "s1",
		Role:    RoleMember,
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := service.Accept(ctx, first.ID); err != nil {
		t.Fatal(err)
	}

	stats, err := service.Stats(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]int{
		"total":    2,
		"pending":  1,
		"accepted": 1,
	}

	for key, want := range cases {
		if have := stats[key]; have != want {
			t.Errorf("%s: have %d, want %d", key, have, want)
		}
	}
}

func testServiceCodes(t *testing.T, p prepareFunc) {
	service, backend := p(t)
	backend.AddCode("join-me", "s9", "Space Nine", RoleMember)

	ctx := context.Background()

	v, err := service.ValidateCode(ctx, "join-me")
	if err != nil {
		t.Fatal(err)
	}

	if !v.Valid {
		t.Error("have invalid, want valid")
	}

	if have, want := v.SpaceName, "Space Nine"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	v, err = service.ValidateCode(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}

	if v.Valid {
		t.Error("have valid, want invalid")
	}

	if v.Reason == "" {
		t.Error("have empty reason, want populated")
	}

	i, err := service.JoinByCode(ctx, "join-me")
	if err != nil {
		t.Fatal(err)
	}

	if have, want := i.SpaceID, "s9"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if have, want := i.Status, StatusAccepted; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if _, err := service.JoinByCode(ctx, "nope"); !IsNotFound(err) {
		t.Errorf("have %v, want ErrNotFound", err)
	}
}
