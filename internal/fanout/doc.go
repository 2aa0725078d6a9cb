// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package fanout runs one external fetch process per user and supervises them.
//
// A run has three phases, wired together by Pipeline:
//
//   - the pre-step (e.g. addUser.js) runs once per user, one after the other;
//     its output is captured and its exit code only logged.
//   - the worker step (e.g. fetchUserDetailsAndContribs.js) is started for
//     every user at once by Pool, which then polls the processes on a fixed
//     interval and hands a progress.Snapshot to a progress.Reporter per tick.
//   - the post-step (e.g. fetchRepos.js --firsttime) runs once, only when every
//     worker exited 0.
//
// Steps are shell command lines. Usernames are passed as positional
// parameters ("$@"), never spliced into the command string.
package fanout
