// Package hcl loads game definitions written in HCL into the format-agnostic
// config.Model and decodes node arguments for handlers.
//
// A definition file may contain any number of these top-level blocks:
//
//	graph "name" {
//	  start     = "first_node"
//	  terminals = ["done"]
//
//	  node "first_node" {
//	    handler = "present_topic"
//	    commit  = false
//	    arguments {
//	      topic = "introduction"
//	    }
//	  }
//
//	  edge "first_node" { to = "first_node_input" }
//
//	  route "first_node_input" {
//	    router = "question_left"
//	    labels = { again = "first_node", exit = "done" }
//	    retry {
//	      max      = 3
//	      loop     = ["again"]
//	      fallback = "exit"
//	    }
//	  }
//	}
//
//	race "Elf" { ... }
//	class "Warrior" { ... }
//
// Files are read from an fs.FS so that embedded grids and on-disk overrides go
// through the same code path.
package hcl
