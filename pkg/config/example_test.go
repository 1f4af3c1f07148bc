package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/multreplace/pkg/config"
)

func ExampleLoad_yaml() {
	ctx := context.Background()
	// Same rules as the package documentation
	configYAML := `language: en
rules:
  - before: cat
    after: dog
  - before: category
    after: kind
    file: "docs/*.md"
`

	tmpDir, err := os.MkdirTemp("", "multreplace-example-*")
	if err != nil {
		fmt.Printf("Error creating temp dir: %v\n", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, ".multreplace.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	fmt.Printf("Language: %s\n", cfg.Language)
	for _, r := range cfg.RuleSet() {
		fmt.Printf("%s -> %s (file=%q)\n", r.FromText, r.ToText, r.FileFilterGlob)
	}

	docRules, err := cfg.RuleSet().ForPath("docs/readme.md")
	if err != nil {
		fmt.Printf("Error filtering rules: %v\n", err)
		return
	}
	otherRules, err := cfg.RuleSet().ForPath("main.go")
	if err != nil {
		fmt.Printf("Error filtering rules: %v\n", err)
		return
	}
	fmt.Printf("docs/readme.md: %d rules, main.go: %d rules\n", docRules.Len(), otherRules.Len())

	// Output:
	// Language: en
	// cat -> dog (file="")
	// category -> kind (file="docs/*.md")
	// docs/readme.md: 2 rules, main.go: 1 rules
}
