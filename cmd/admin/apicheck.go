package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"promptly/docs"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var httpMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"patch": true, "head": true, "options": true,
}

// apiSurface maps path -> method -> documented response codes.
type apiSurface map[string]map[string]map[string]bool

func newAPICheckCmd() *cobra.Command {
	var basePath, revisionPath string
	cmd := &cobra.Command{
		Use:   "apicheck",
		Short: "Fail when a revision of the API docs removes paths, operations or responses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			baseRaw, err := os.ReadFile(basePath) // #nosec G304: operator-supplied path
			if err != nil {
				return fmt.Errorf("read base: %w", err)
			}
			base, err := parseSurface(baseRaw)
			if err != nil {
				return fmt.Errorf("base: %w", err)
			}

			revRaw := []byte(docs.SwaggerInfo.ReadDoc())
			if revisionPath != "" {
				if revRaw, err = os.ReadFile(revisionPath); err != nil { // #nosec G304
					return fmt.Errorf("read revision: %w", err)
				}
			}
			revision, err := parseSurface(revRaw)
			if err != nil {
				return fmt.Errorf("revision: %w", err)
			}

			issues := compareSurfaces(base, revision)
			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintln(out, "api compatibility check passed")
				return nil
			}
			fmt.Fprintln(out, "backward compatibility check failed:")
			for _, issue := range issues {
				fmt.Fprintf(out, "- %s\n", issue)
			}
			return fmt.Errorf("%d breaking change(s)", len(issues))
		},
	}
	cmd.Flags().StringVar(&basePath, "base", "", "previous swagger document (YAML or JSON)")
	cmd.Flags().StringVar(&revisionPath, "revision", "", "revised swagger document; defaults to the built-in docs")
	_ = cmd.MarkFlagRequired("base")
	return cmd
}

// parseSurface reads a swagger document. JSON is valid YAML, so both formats work.
func parseSurface(raw []byte) (apiSurface, error) {
	var doc struct {
		Paths map[string]map[string]yaml.Node `yaml:"paths"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	surface := make(apiSurface, len(doc.Paths))
	for path, item := range doc.Paths {
		ops := make(map[string]map[string]bool)
		for method, node := range item {
			method = strings.ToLower(strings.TrimSpace(method))
			if !httpMethods[method] {
				continue
			}
			var op struct {
				Responses map[string]yaml.Node `yaml:"responses"`
			}
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(method), path, err)
			}
			codes := make(map[string]bool, len(op.Responses))
			for code := range op.Responses {
				codes[strings.ToLower(strings.TrimSpace(code))] = true
			}
			ops[method] = codes
		}
		if len(ops) > 0 {
			surface[path] = ops
		}
	}
	return surface, nil
}

func compareSurfaces(base, revision apiSurface) []string {
	var issues []string
	for path, baseOps := range base {
		revOps, ok := revision[path]
		if !ok {
			issues = append(issues, "removed path: "+path)
			continue
		}
		for method, baseCodes := range baseOps {
			revCodes, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}
			for code := range baseCodes {
				if !revCodes[code] {
					issues = append(issues, fmt.Sprintf("removed response code: %s %s -> %s",
						strings.ToUpper(method), path, strings.ToUpper(code)))
				}
			}
		}
	}
	sort.Strings(issues)
	return issues
}
