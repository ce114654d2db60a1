package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal"
	"github.com/brackethq/bracket/internal/recovery"
	"github.com/brackethq/bracket/internal/validate"
)

// forms are the requests whose constraints are published by the schema
// command. Other clients use them to validate input before sending it.
var forms = map[string]validate.Request{
	"LoginRequest":                 api.LoginRequest{},
	"PasswordResetRequest":         api.PasswordResetRequest{},
	"CompletePasswordResetRequest": api.CompletePasswordResetRequest{},
	"PasswordResetForm":            recovery.Credential{},
	"AddCollaboratorRequest":       api.AddCollaboratorRequest{},
}

// FormsDocument returns an OpenAPI document with a component schema for every
// form the client validates.
func FormsDocument() openapi3.T {
	schemas := make(openapi3.Schemas, len(forms))
	for name, req := range forms {
		schemas[name] = openapi3.NewSchemaRef("", validate.Schema(req))
	}

	return openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:   "Bracket forms",
			Version: internal.FullVersion(),
		},
		Paths:      openapi3.Paths{},
		Components: &openapi3.Components{Schemas: schemas},
	}
}

func WriteFormsDocument(doc openapi3.T, out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	return nil
}

func WriteFormsDocumentToFile(doc openapi3.T, filename string) error {
	fh, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fh.Close()
	return WriteFormsDocument(doc, fh)
}

func newSchemaCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:     "schema",
		Short:   "Print the validation rules of every form as an OpenAPI document",
		Args:    NoArgs,
		GroupID: groupOther,
		RunE: func(cmd *cobra.Command, args []string) error {
			return WriteFormsDocument(FormsDocument(), cli.Stdout)
		},
	}
}
