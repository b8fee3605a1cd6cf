package main

// Short messages (one-liners)
const (
	MsgRootShort = "A minimal, flexible, dotfile installer"
	MsgRootLong  = `lares installs your dotfiles according to a YAML manifest of steps.
Each step copies, links or runs files and is gated by a tag check, so one
manifest can serve every machine you own, locally or over SSH.`

	MsgVersionShort = "Print version information"
)

// MsgExamples is appended to the root command's help output
const MsgExamples = `  # List tags in manifest
  lares manifest.yml --list-tags

  # Preview installation steps with tags matching A && (B || C) && !D
  lares manifest.yml -t A -t B,C -t ^D --dry-run

  # Install dotfiles on the local machine
  lares manifest.yml -t A -t B,C -t ^D

  # Install dotfiles to user@hostname over SSH
  lares manifest.yml -t A -t B,C -t ^D --host user@hostname`
