package settings

import (
	"context"
	"testing"
)

func TestIntoContextFromContext(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func() context.Context
		want     *Run
		wantOk   bool
	}{
		{
			name: "stored_run",
			setupCtx: func() context.Context {
				return IntoContext(context.Background(), &Run{Mode: "drun", NoColor: true})
			},
			want:   &Run{Mode: "drun", NoColor: true},
			wantOk: true,
		},
		{
			name: "empty_run",
			setupCtx: func() context.Context {
				return IntoContext(context.Background(), &Run{})
			},
			want:   &Run{},
			wantOk: true,
		},
		{
			name:     "missing",
			setupCtx: context.Background,
		},
		{
			name: "wrong_type",
			setupCtx: func() context.Context {
				return context.WithValue(context.Background(), runKey{}, "windows")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.setupCtx())
			if ok != tt.wantOk {
				t.Fatalf("FromContext() ok = %v; want %v", ok, tt.wantOk)
			}
			if tt.want == nil {
				if got != nil {
					t.Errorf("FromContext() = %+v; want nil", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("FromContext() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestIntoContextKeepsPointer(t *testing.T) {
	run := NewCliParams()
	got, ok := FromContext(IntoContext(context.Background(), run))
	if !ok || got != run {
		t.Fatal("FromContext() returned a different *Run than stored")
	}
}
