package callauth

import (
	"reflect"
	"testing"

	"google.golang.org/grpc/metadata"
)

func TestMergeHeadersPreservesOrderAndMultiplicity(t *testing.T) {
	var hdrs Headers
	hdrs.Add("Authorization", "token1")
	hdrs.Add("Authorization", "token2")
	hdrs.Add("Extra-Authorization", "token3", "token4")

	merged := MergeHeaders(hdrs, metadata.MD{})

	if got := merged["Authorization"]; !reflect.DeepEqual(got, []string{"token1", "token2"}) {
		t.Fatalf("unexpected Authorization values: %v", got)
	}
	if got := merged["Extra-Authorization"]; !reflect.DeepEqual(got, []string{"token3", "token4"}) {
		t.Fatalf("unexpected Extra-Authorization values: %v", got)
	}
}

func TestMergeHeadersAppendsToExistingEntries(t *testing.T) {
	hdrs := Headers{{Name: "Authorization", Values: []string{"token2"}}}
	md := metadata.MD{
		"Authorization": {"token1"},
		"x-request-id":  {"abc"},
	}

	merged := MergeHeaders(hdrs, md)

	if got := merged["Authorization"]; !reflect.DeepEqual(got, []string{"token1", "token2"}) {
		t.Fatalf("expected existing value first, got %v", got)
	}
	if got := merged["x-request-id"]; !reflect.DeepEqual(got, []string{"abc"}) {
		t.Fatalf("expected unrelated entry kept, got %v", got)
	}
}

func TestMergeHeadersDoesNotMutateInput(t *testing.T) {
	hdrs := Headers{{Name: "Authorization", Values: []string{"token2"}}}
	md := metadata.MD{"Authorization": {"token1"}}

	merged := MergeHeaders(hdrs, md)
	merged["Authorization"][0] = "mutated"

	if md["Authorization"][0] != "token1" {
		t.Fatal("expected input metadata to be untouched")
	}
}

func TestMergeHeadersKeepsDuplicateValues(t *testing.T) {
	hdrs := Headers{{Name: "Authorization", Values: []string{"token", "token"}}}

	merged := MergeHeaders(hdrs, metadata.MD{"Authorization": {"token"}})

	if got := merged["Authorization"]; !reflect.DeepEqual(got, []string{"token", "token", "token"}) {
		t.Fatalf("expected no deduplication, got %v", got)
	}
}

func TestMergeHeadersKeepsNameCase(t *testing.T) {
	hdrs := Headers{{Name: "X-Custom", Values: []string{"v"}}}

	merged := MergeHeaders(hdrs, metadata.MD{})

	if _, ok := merged["X-Custom"]; !ok {
		t.Fatalf("expected case-sensitive key, got %v", merged)
	}
	if _, ok := merged["x-custom"]; ok {
		t.Fatal("expected no lowercased key")
	}
}

func TestHeadersGet(t *testing.T) {
	var hdrs Headers
	hdrs.Add("Authorization", "token1")
	hdrs.Add("Extra-Authorization", "token3")
	hdrs.Add("Authorization", "token2")

	if got := hdrs.Get("Authorization"); !reflect.DeepEqual(got, []string{"token1", "token2"}) {
		t.Fatalf("unexpected values: %v", got)
	}
	if got := hdrs.Get("missing"); got != nil {
		t.Fatalf("expected nil for missing name, got %v", got)
	}
	if len(hdrs) != 2 {
		t.Fatalf("expected two entries, got %d", len(hdrs))
	}
}
