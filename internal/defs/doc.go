// Package defs loads operator-supplied token definitions from CUE files.
//
// The builtin token types cover the markdown core; deployments extend the
// registry with their own definitions (extra patterns, affordances,
// priorities) written as CUE under a "token" namespace:
//
//	token: release_tag: {
//	    pattern:  #"\bv\d+\.\d+\.\d+\b"#
//	    priority: 20
//	    kind:     "cross_ref"
//	    affordances: [{
//	        name:        "hover"
//	        action_kind: "inspect"
//	        handler_ref: "core.hover"
//	        requires: ["view"]
//	        description: "show release notes"
//	    }]
//	}
//
// Compilation errors carry CUE source positions so a misconfigured
// definition points at the offending file and line.
package defs
