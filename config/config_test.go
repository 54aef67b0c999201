package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

func TestTypedGetters(t *testing.T) {
	c := map[string]string{
		"PORT":      "9000",
		"BAD_INT":   "nine",
		"ENABLED":   "true",
		"TIMEOUT":   "45",
		"IDLE":      "2m",
		"ORIGINS":   "https://a.example, ,https://b.example",
		"EMPTY_VAL": "",
	}

	if got := GetInt(c, "PORT", 8080); got != 9000 {
		t.Errorf("GetInt(PORT) = %d, want 9000", got)
	}
	if got := GetInt(c, "BAD_INT", 7); got != 7 {
		t.Errorf("GetInt(BAD_INT) = %d, want default 7", got)
	}
	if got := GetBool(c, "ENABLED", false); !got {
		t.Error("GetBool(ENABLED) = false, want true")
	}
	if got := GetDuration(c, "TIMEOUT", time.Second); got != 45*time.Second {
		t.Errorf("GetDuration(TIMEOUT) = %v, want 45s", got)
	}
	if got := GetDuration(c, "IDLE", time.Second); got != 2*time.Minute {
		t.Errorf("GetDuration(IDLE) = %v, want 2m", got)
	}
	if got := GetString(c, "EMPTY_VAL", "fallback"); got != "fallback" {
		t.Errorf("GetString(EMPTY_VAL) = %q, want fallback", got)
	}

	origins := GetList(c, "ORIGINS")
	if len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Errorf("GetList(ORIGINS) = %v", origins)
	}
	if GetList(nil, "ORIGINS") != nil {
		t.Error("GetList on nil config should be nil")
	}
}

type fakeSSM struct {
	pages []*ssm.GetParametersByPathOutput
	calls int
}

func (f *fakeSSM) GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestOverlayParameters(t *testing.T) {
	client := &fakeSSM{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []types.Parameter{
				{Name: aws.String("/chantier/prod/JWT_SECRET"), Value: aws.String("from-ssm")},
			},
			NextToken: aws.String("next"),
		},
		{
			Parameters: []types.Parameter{
				{Name: aws.String("/chantier/prod/PORT"), Value: aws.String("1234")},
			},
		},
	}}

	c := map[string]string{"PORT": "8080"}
	if err := overlayParameters(context.Background(), client, "/chantier/prod", c); err != nil {
		t.Fatalf("overlayParameters: %v", err)
	}

	if c["JWT_SECRET"] != "from-ssm" {
		t.Errorf("JWT_SECRET = %q, want from-ssm", c["JWT_SECRET"])
	}
	if c["PORT"] != "8080" {
		t.Errorf("PORT = %q, environment should win over SSM", c["PORT"])
	}
	if client.calls != 2 {
		t.Errorf("expected 2 page reads, got %d", client.calls)
	}
}
