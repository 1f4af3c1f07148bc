/*
Package text implements simultaneous multi-pattern literal replacement.

	+-----------+      +-------------+      +----------------+
	|  RuleSet  | ---> |   Compile   | ---> | MultiReplacer  |
	| (ordered) |      | (dedupe +   |      | (single pass,  |
	+-----------+      |  sort keys) |      |  longest wins) |
	                   +-------------+      +----------------+

🎯 Purpose:
- Replace every occurrence of every "before" literal with its "after" value
- Never let one rule's output feed another rule
- Never let a short key fragment a longer key at the same position

🔄 Flow:
1. Drop rules with an empty FromText
2. Keep the last rule for each repeated FromText
3. Order keys by descending length, then lexicographically
4. Scan the input once, left to right, emitting ToText for the first
   (longest) key that matches and copying one codepoint otherwise

🔍 Example:

	out := text.Replace("category cat", text.RuleSet{
		{FromText: "cat", ToText: "X"},
		{FromText: "category", ToText: "Y"},
	})
	// out == "Y X"

Replacing rules one after another with strings.ReplaceAll is not
equivalent: with {a→b, b→c} it turns "ab" into "cc" instead of "bc".
*/
package text
