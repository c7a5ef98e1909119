package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vetfhir/vetfhir/internal/config"
)

// convertRoutes maps a --kind to its route segment and the directions it
// accepts.
var convertRoutes = map[string]struct {
	segment    string
	directions []string
}{
	"appointment":  {"appointments", []string{"to-fhir", "from-fhir", "from-fhir-resource", "monthly-slot-request"}},
	"pet":          {"pets", []string{"to-fhir", "from-fhir", "list"}},
	"immunization": {"immunizations", []string{"to-fhir", "from-fhir", "from-fhir-resource", "validate"}},
	"observation":  {"observations", []string{"feedback", "duty", "from-fhir"}},
	"organization": {"organizations", []string{"to-fhir", "from-fhir"}},
	"document":     {"documents", []string{"to-fhir", "from-fhir", "medical-record"}},
	"slot":         {"slots", []string{"to-fhir"}},
}

func convertCmd() *cobra.Command {
	var kind, direction, file string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a JSON document read from a file or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			body, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			e, err := newServer(cfg, zerolog.Nop(), backends{})
			if err != nil {
				return err
			}

			status, out, err := convertPayload(e, kind, direction, body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(out)))
			if status >= http.StatusBadRequest {
				return fmt.Errorf("conversion failed with status %d", status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Entity kind: "+strings.Join(convertKinds(), ", "))
	cmd.Flags().StringVar(&direction, "direction", "to-fhir", "Conversion direction, e.g. to-fhir or from-fhir")
	cmd.Flags().StringVar(&file, "file", "", "Input file (default stdin)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func convertKinds() []string {
	kinds := make([]string, 0, len(convertRoutes))
	for k := range convertRoutes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// convertPayload runs body through the same route the HTTP API serves, so
// the CLI validates and converts exactly as the server does.
func convertPayload(e *echo.Echo, kind, direction string, body []byte) (int, []byte, error) {
	route, ok := convertRoutes[kind]
	if !ok {
		return 0, nil, fmt.Errorf("unknown kind %q (want one of %s)", kind, strings.Join(convertKinds(), ", "))
	}
	supported := false
	for _, d := range route.directions {
		if d == direction {
			supported = true
			break
		}
	}
	if !supported {
		return 0, nil, fmt.Errorf("kind %q does not support direction %q (want one of %s)",
			kind, direction, strings.Join(route.directions, ", "))
	}

	path := "/api/v1/convert/" + route.segment + "/" + direction
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes(), nil
}
