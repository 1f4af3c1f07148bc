/*
Package operation runs replacements over one or more documents.

	+-------------+
	|   Runner    |
	| (sync/async)|
	+------+------+
	       |
	+------+------+
	|  Replace    |
	|  Operation  |
	+------+------+
	       |
	Load -> Execute -> Confirm -> Save

🎯 Purpose:
- Wraps the session Load/Execute/Save cycle for a single file
- Reports each document through the console logger
- Runs many documents in order, or concurrently when no prompt is needed

⚡ Key Responsibilities:
- Dry runs render the preview and never write
- A declined confirmation leaves the file untouched
- Rules with a file glob only apply to matching documents

The runner stops at the first failing document when running in order. When
running concurrently the first error cancels the documents not yet started.
*/
package operation
