// Package config loads declarative binding files.
//
// A binding file is a JSON document with hotkeys and hotstrings
// arrays. Every entry names a label; the procedures themselves are
// defined in the script the file is loaded alongside.
//
//	{
//	  "hotkeys": [
//	    {"key": "^j", "label": "Greet", "options": "P2",
//	     "when": {"active": {"title": "Notepad"}}}
//	  ],
//	  "hotstrings": [
//	    {"trigger": "btw", "label": "ExpandBtw", "options": "*",
//	     "enabled": false}
//	  ]
//	}
//
// Validation errors carry the JSON path of the offending value.
package config
