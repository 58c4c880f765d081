package toolerr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/petasbytes/codetour-mcp/internal/toolerr"
	"github.com/petasbytes/codetour-mcp/tour"
)

func TestToolError_CompactJSON(t *testing.T) {
	e := toolerr.ToolError{Code: toolerr.CodeNotFound, Message: "tour file not found: a.tour"}
	want := `{"code":"ERR_NOT_FOUND","message":"tour file not found: a.tour"}`
	if e.Error() != want {
		t.Fatalf("got %s want %s", e.Error(), want)
	}
	var back toolerr.ToolError
	if err := json.Unmarshal([]byte(e.Error()), &back); err != nil || back != e {
		t.Fatalf("not round-trippable: %v %+v", err, back)
	}
}

func TestFrom_Codes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"not found", fmt.Errorf("%w: x.tour", tour.ErrNotFound), toolerr.CodeNotFound},
		{"parse", fmt.Errorf("%w in x.tour: eof", tour.ErrParse), toolerr.CodeParse},
		{"index", tour.CheckIndex(3, 1), toolerr.CodeIndexOutOfRange},
		{"exists", fmt.Errorf("%w: x.tour", tour.ErrAlreadyExists), toolerr.CodeAlreadyExists},
		{"unknown", fmt.Errorf("%w: nope", tour.ErrUnknownOperation), toolerr.CodeUnknownOperation},
		{"input", fmt.Errorf("%w: path is required", tour.ErrInvalidInput), toolerr.CodeInvalidInput},
		{"io", os.ErrPermission, toolerr.CodeIO},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := toolerr.From(tc.err)
			if got.Code != tc.code {
				t.Fatalf("code = %s, want %s", got.Code, tc.code)
			}
			if got.Message != tc.err.Error() {
				t.Fatalf("message = %q, want %q", got.Message, tc.err.Error())
			}
		})
	}
}

func TestFrom_PassesThroughToolError(t *testing.T) {
	orig := toolerr.ToolError{Code: "ERR_CUSTOM", Message: "m"}
	if got := toolerr.From(fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Fatalf("got %+v", got)
	}
}

func TestIndexMessage_EmptyTour(t *testing.T) {
	got := toolerr.From(tour.CheckIndex(0, 0))
	if got.Message != "step index 0 out of range (0--1)" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestCode_Nil(t *testing.T) {
	if c := toolerr.Code(nil); c != "" {
		t.Fatalf("expected empty code, got %q", c)
	}
	if c := toolerr.Code(errors.New("boom")); c != toolerr.CodeIO {
		t.Fatalf("got %q", c)
	}
}
