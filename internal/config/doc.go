// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds the commands fetchusers runs and how often it polls.
//
// The defaults reproduce the ghuser.io scripts. A config file, local or
// fetched with go-getter, can replace any of the three steps. Files ending in
// .hcl are HCL, where `env.NAME` reads an environment variable; .yaml and .yml
// files are YAML. A step block present in the file replaces the default step
// entirely, so a step can be disabled with an empty command_line.
//
// Example (HCL):
//
//	poll_interval = "2s"
//
//	worker {
//	  command_line = "./fetchUserDetailsAndContribs.js"
//	  args         = ["--nospin"]
//	  env = {
//	    GITHUB_TOKEN = env.GITHUB_TOKEN
//	  }
//	}
//
//	post_step {
//	  command_line = ""
//	}
package config
