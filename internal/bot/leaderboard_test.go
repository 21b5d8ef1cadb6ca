package bot

import (
	"context"
	"strings"
	"testing"
)

func TestLeaderboardAddAndMarkdown(t *testing.T) {
	client := newFakeClient(testBot)
	lb := NewLeaderboard(client, "leaderboard")
	ctx := context.Background()

	for _, win := range []struct {
		user  string
		round int
	}{
		{"alice", 10},
		{"bob", 11},
		{"alice", 12},
	} {
		if err := lb.Add(ctx, win.user, win.round); err != nil {
			t.Fatalf("add %s round %d: %v", win.user, win.round, err)
		}
	}

	md, err := lb.Markdown(ctx)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if !strings.Contains(md, "1 | alice | 10, 12 | 2") {
		t.Fatalf("alice row missing or out of order:\n%s", md)
	}
	if !strings.Contains(md, "2 | bob | 11 | 1") {
		t.Fatalf("bob row missing:\n%s", md)
	}
}

func TestLeaderboardNoDoubleCredit(t *testing.T) {
	client := newFakeClient(testBot)
	lb := NewLeaderboard(client, "leaderboard")
	ctx := context.Background()

	if err := lb.Add(ctx, "alice", 10); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := lb.Add(ctx, "bob", 10); err == nil {
		t.Fatal("crediting the same round to a second user must fail")
	}
	if err := lb.Add(ctx, "alice", 10); err == nil {
		t.Fatal("re-crediting the same round must fail")
	}
}

func TestLeaderboardAddRemoveRoundTrip(t *testing.T) {
	client := newFakeClient(testBot)
	lb := NewLeaderboard(client, "leaderboard")
	ctx := context.Background()

	if err := lb.Add(ctx, "alice", 10); err != nil {
		t.Fatalf("add: %v", err)
	}
	before, err := lb.Markdown(ctx)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}

	if err := lb.Add(ctx, "bob", 11); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := lb.Remove(ctx, "bob", 11); err != nil {
		t.Fatalf("remove: %v", err)
	}
	after, err := lb.Markdown(ctx)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if before != after {
		t.Fatalf("add+remove did not restore prior state:\nbefore:\n%s\nafter:\n%s", before, after)
	}

	if err := lb.Remove(ctx, "bob", 11); err == nil {
		t.Fatal("removing an absent credit must fail")
	}
}

func TestLeaderboardHydratesFromWiki(t *testing.T) {
	client := newFakeClient(testBot)
	client.wiki["leaderboard"] = "# Leaderboard\n\n" +
		"Rank | Username | Rounds won | Total\n" +
		":--:|:--:|:--|:--:\n" +
		"1 | alice | 10, 12 | 2\n" +
		"2 | bob | 11 | 1\n"
	lb := NewLeaderboard(client, "leaderboard")
	ctx := context.Background()

	entries, err := lb.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Username != "alice" || entries[0].Total != 2 || entries[0].Rank != 1 {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}

	// Round 12 already belongs to alice after hydration.
	if err := lb.Add(ctx, "carol", 12); err == nil {
		t.Fatal("hydrated credits must block double-crediting")
	}
	if err := lb.Add(ctx, "carol", 13); err != nil {
		t.Fatalf("add after hydration: %v", err)
	}
}

func TestLeaderboardPublishWritesWiki(t *testing.T) {
	client := newFakeClient(testBot)
	lb := NewLeaderboard(client, "leaderboard")
	ctx := context.Background()

	if err := lb.Add(ctx, "alice", 10); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := lb.Publish(ctx, "alice won Round 10."); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(client.wikiEdits) != 1 {
		t.Fatalf("expected one wiki edit, got %d", len(client.wikiEdits))
	}
	edit := client.wikiEdits[0]
	if edit.Page != "leaderboard" || edit.Reason != "alice won Round 10." {
		t.Fatalf("unexpected edit %+v", edit)
	}
	if !strings.Contains(edit.Content, "alice") {
		t.Fatalf("published table missing winner:\n%s", edit.Content)
	}
}
