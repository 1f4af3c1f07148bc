
/*
Package config loads multreplace rule files.

	            +-------------+
	            |   Config    |
	            |  (Rules)    |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |  JSON   |   |   HCL   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🎯 Purpose:
- Reads rule lists and UI settings from .yaml, .yml, .json and .hcl files
- A bare .multreplace file is tried as YAML first and then as HCL
- Validates rules with the same checks the replacer uses
- Fills in defaults (language ja, three lines of preview context, color on)

📝 Example (YAML):

	language: en
	rules:
	  - before: cat
	    after: dog
	  - before: category
	    after: kind
	    file: "docs/*.md"

📝 Example (HCL):

	rule {
	  before = "AUTHOR"
	  after  = env.USER
	}

Rules keep their file order. When two rules share a before text the later
one wins at replacement time.
*/
package config
