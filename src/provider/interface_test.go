package provider

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindAuto, false},
		{"auto", KindAuto, false},
		{"Woodpecker", KindWoodpecker, false},
		{" drone ", KindDrone, false},
		{"jenkins", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrProviderUnknown) {
				t.Errorf("ParseKind(%q) error = %v, want ErrProviderUnknown", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Repo
		wantErr bool
	}{
		{name: "owner/name", in: "acme/api", want: Repo{Owner: "acme", Name: "api"}},
		{name: "slashes trimmed", in: "/acme/api/", want: Repo{Owner: "acme", Name: "api"}},
		{name: "numeric id", in: "42", want: Repo{ID: 42}},
		{name: "missing name", in: "acme", wantErr: true},
		{name: "too deep", in: "acme/api/extra", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepo(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepo(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRepo(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildsPath(t *testing.T) {
	repo := Repo{Owner: "acme", Name: "api"}

	tests := []struct {
		name string
		kind Kind
		repo Repo
		want string
	}{
		{"drone", KindDrone, repo, "repos/acme/api/builds?page=2&per_page=50"},
		{"woodpecker by name", KindWoodpecker, repo, "repos/acme/api/pipelines?page=2&per_page=50"},
		{"woodpecker by id", KindWoodpecker, Repo{ID: 7}, "repos/7/pipelines?page=2&per_page=50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildsPath(tt.kind, tt.repo, 2, PageSize); got != tt.want {
				t.Errorf("BuildsPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRepo_String(t *testing.T) {
	if got := (Repo{Owner: "acme", Name: "api"}).String(); got != "acme/api" {
		t.Errorf("String() = %q, want %q", got, "acme/api")
	}
	if got := (Repo{ID: 9}).String(); got != "9" {
		t.Errorf("String() = %q, want %q", got, "9")
	}
}
