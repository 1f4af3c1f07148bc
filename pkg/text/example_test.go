package text_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/multreplace/pkg/text"
)

func ExampleReplace() {
	rules := text.RuleSet{
		{FromText: "cat", ToText: "dog"},
		{FromText: "category", ToText: "kind"},
		{FromText: "dog", ToText: "cat"},
	}

	fmt.Println(text.Replace("a category of cat and dog", rules))

	// Output:
	// a kind of dog and cat
}

func ExampleMultiReplacer_ReplaceText() {
	replacer := text.Compile(nil)

	rules := []text.ReplacementRule{
		{FromText: "World", ToText: "Universe"},
		{FromText: "Hello", ToText: "Hi"},
	}

	result, err := replacer.ReplaceText(context.Background(), strings.NewReader("Hello World!"), rules)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Original: %s\n", result.OriginalContent)
	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Original: Hello World!
	// Modified: Hi Universe!
	// Changes: 2
	// Was Modified: true
}

func ExampleValidateRules() {
	rules := []text.ReplacementRule{
		{FromText: "foo", ToText: "bar", FileFilterGlob: "*.txt"},
		{ToText: "qux"}, // missing FromText
	}

	err := text.ValidateRules(rules)
	fmt.Printf("Validation error: %v\n", err)

	// Output:
	// Validation error: rule 1: from_text is required
}
