package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	ArgWords    []string // fixed positional values (shell or command names)
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments
}

// completionMeta holds completion-specific metadata for flags.
// This is the ONLY place where completion hints are defined.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	FileGlob string // file glob pattern
	IsDir    bool   // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml,*.toml"},

	// Directory flags
	"entries": {IsDir: true},
	"output":  {IsDir: true},
	"dir":     {IsDir: true},
}

// buildGenerateFlagSet creates a FlagSet with all generate command flags.
// This reuses the same flag registration as parseGenerateFlags.
func buildGenerateFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	addGenerateFlags(fs, &generateFlags{})
	return fs
}

// buildServeFlagSet creates a FlagSet with all serve command flags.
func buildServeFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addServeFlags(fs, &serveFlags{})
	return fs
}

// buildDoctorFlagSet creates a FlagSet with all doctor command flags.
func buildDoctorFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	addDoctorFlags(fs, &doctorFlags{})
	return fs
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		if f.Value.Type() == "bool" {
			fd.Type = flagBool
		} else {
			fd.Type = flagString
		}

		// Override type based on completion metadata
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet - single source of truth.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        "generate",
			Desc:        "Build the static ActivityPub instance",
			Flags:       extractFlagsFromFlagSet(buildGenerateFlagSet()),
			TakesFiles:  true,
			FilePattern: "*.yaml,*.yml,*.toml",
		},
		{
			Name:  "serve",
			Desc:  "Serve a built instance locally",
			Flags: extractFlagsFromFlagSet(buildServeFlagSet()),
		},
		{
			Name:  "doctor",
			Desc:  "Check configuration and input files",
			Flags: extractFlagsFromFlagSet(buildDoctorFlagSet()),
		},
		{
			Name:     "completion",
			Desc:     "Generate shell completion script",
			ArgWords: []string{"bash", "zsh", "fish", "powershell"},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name:     "help",
			Desc:     "Show help for a command",
			ArgWords: []string{"generate", "serve", "doctor", "completion", "version", "help"},
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: staticpub completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(staticpub completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(staticpub completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    staticpub completion fish > ~/.config/fish/completions/staticpub.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    staticpub completion powershell | Out-String | Invoke-Expression")
}

// flagWords lists the long and short spellings of each flag.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// extAlternation turns "*.yaml,*.yml,*.toml" into "yaml|yml|toml".
func extAlternation(glob string) string {
	parts := strings.Split(glob, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(p), "*."))
	}
	return strings.Join(exts, "|")
}

// generateBash writes a bash completion script built from getCommands.
func generateBash(w io.Writer) error {
	commands := getCommands()

	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}

	fmt.Fprintln(w, "# bash completion for staticpub")
	fmt.Fprintln(w, "# Install: eval \"$(staticpub completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "_staticpub() {")
	fmt.Fprintln(w, "    local cur prev cmd")
	fmt.Fprintln(w, "    COMPREPLY=()")
	fmt.Fprintln(w, "    cur=\"${COMP_WORDS[COMP_CWORD]}\"")
	fmt.Fprintln(w, "    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    if [[ ${COMP_CWORD} -eq 1 ]]; then")
	fmt.Fprintf(w, "        COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(names, " "))
	fmt.Fprintln(w, "        return 0")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    cmd=\"${COMP_WORDS[1]}\"")
	fmt.Fprintln(w, "    case \"${cmd}\" in")
	for _, c := range commands {
		writeBashCommand(w, c)
	}
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "complete -F _staticpub staticpub")
	return nil
}

// writeBashCommand writes one command's case arm for bash.
func writeBashCommand(w io.Writer, c commandDef) {
	fmt.Fprintf(w, "        %s)\n", c.Name)

	type prevArm struct {
		pattern string
		action  string
	}
	var arms []prevArm
	var dirFlags []string
	for _, f := range c.Flags {
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		switch f.Type {
		case flagFile:
			arms = append(arms, prevArm{pattern,
				fmt.Sprintf("COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"${cur}\") )", extAlternation(f.FileGlob))})
		case flagDir:
			dirFlags = append(dirFlags, pattern)
		case flagString:
			arms = append(arms, prevArm{pattern, "COMPREPLY=()"})
		}
	}
	if len(dirFlags) > 0 {
		arms = append(arms, prevArm{strings.Join(dirFlags, "|"), "COMPREPLY=( $(compgen -d -- \"${cur}\") )"})
	}

	if len(arms) > 0 {
		fmt.Fprintln(w, "            case \"${prev}\" in")
		for _, a := range arms {
			fmt.Fprintf(w, "                %s)\n", a.pattern)
			fmt.Fprintf(w, "                    %s\n", a.action)
			fmt.Fprintln(w, "                    return 0")
			fmt.Fprintln(w, "                    ;;")
		}
		fmt.Fprintln(w, "            esac")
	}

	words := append(flagWords(c.Flags), c.ArgWords...)
	if len(words) > 0 {
		fmt.Fprintf(w, "            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(words, " "))
	}
	if c.TakesFiles {
		fmt.Fprintf(w, "            COMPREPLY+=( $(compgen -f -X '!*.@(%s)' -- \"${cur}\") )\n", extAlternation(c.FilePattern))
	}
	fmt.Fprintln(w, "            ;;")
}

// generateZsh writes a zsh completion script built from getCommands.
func generateZsh(w io.Writer) error {
	commands := getCommands()

	fmt.Fprintln(w, "#compdef staticpub")
	fmt.Fprintln(w, "# zsh completion for staticpub")
	fmt.Fprintln(w, "# Install: eval \"$(staticpub completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "_staticpub() {")
	fmt.Fprintln(w, "    local -a commands")
	fmt.Fprintln(w, "    commands=(")
	for _, c := range commands {
		fmt.Fprintf(w, "        '%s:%s'\n", c.Name, c.Desc)
	}
	fmt.Fprintln(w, "    )")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    _arguments -C \\")
	fmt.Fprintln(w, "        '1: :->command' \\")
	fmt.Fprintln(w, "        '*:: :->args'")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    case $state in")
	fmt.Fprintln(w, "        command)")
	fmt.Fprintln(w, "            _describe 'command' commands")
	fmt.Fprintln(w, "            ;;")
	fmt.Fprintln(w, "        args)")
	fmt.Fprintln(w, "            case $words[1] in")
	for _, c := range commands {
		specs := zshFlagSpecs(c)
		if len(specs) == 0 {
			continue
		}
		fmt.Fprintf(w, "                %s)\n", c.Name)
		fmt.Fprintln(w, "                    _arguments \\")
		for i, s := range specs {
			cont := " \\"
			if i == len(specs)-1 {
				cont = ""
			}
			fmt.Fprintf(w, "                        %s%s\n", s, cont)
		}
		fmt.Fprintln(w, "                    ;;")
	}
	fmt.Fprintln(w, "            esac")
	fmt.Fprintln(w, "            ;;")
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "compdef _staticpub staticpub")
	return nil
}

// zshFlagSpecs builds _arguments specs for one command.
func zshFlagSpecs(c commandDef) []string {
	var specs []string
	for _, f := range c.Flags {
		action := ""
		switch f.Type {
		case flagFile:
			action = fmt.Sprintf(":file:_files -g \"*.(%s)\"", extAlternation(f.FileGlob))
		case flagDir:
			action = ":directory:_files -/"
		case flagString:
			action = ":value:"
		}
		if f.Short != "" {
			specs = append(specs, fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'",
				f.Short, f.Long, f.Short, f.Long, f.Desc, action))
		} else {
			specs = append(specs, fmt.Sprintf("'--%s[%s]%s'", f.Long, f.Desc, action))
		}
	}
	if len(c.ArgWords) > 0 {
		specs = append(specs, fmt.Sprintf("'1:argument:(%s)'", strings.Join(c.ArgWords, " ")))
	}
	if c.TakesFiles {
		specs = append(specs, fmt.Sprintf("'1:config:_files -g \"*.(%s)\"'", extAlternation(c.FilePattern)))
	}
	return specs
}

// generateFish writes a fish completion script built from getCommands.
func generateFish(w io.Writer) error {
	commands := getCommands()

	fmt.Fprintln(w, "# fish completion for staticpub")
	fmt.Fprintln(w, "# Install: staticpub completion fish > ~/.config/fish/completions/staticpub.fish")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "complete -c staticpub -n __fish_use_subcommand -f -a %s -d '%s'\n", c.Name, c.Desc)
	}
	for _, c := range commands {
		if len(c.Flags) == 0 && len(c.ArgWords) == 0 {
			continue
		}
		fmt.Fprintln(w)
		cond := fmt.Sprintf("complete -c staticpub -n '__fish_seen_subcommand_from %s'", c.Name)
		for _, word := range c.ArgWords {
			fmt.Fprintf(w, "%s -f -a %s\n", cond, word)
		}
		for _, f := range c.Flags {
			line := cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch f.Type {
			case flagBool:
				line += " -f"
			case flagFile:
				line += " -r"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString:
				line += " -x"
			}
			fmt.Fprintf(w, "%s -d '%s'\n", line, f.Desc)
		}
	}
	return nil
}

// generatePowerShell writes a PowerShell completion script built from
// getCommands.
func generatePowerShell(w io.Writer) error {
	commands := getCommands()

	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}

	fmt.Fprintln(w, "# powershell completion for staticpub")
	fmt.Fprintln(w, "# Install: staticpub completion powershell | Out-String | Invoke-Expression")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Register-ArgumentCompleter -Native -CommandName staticpub -ScriptBlock {")
	fmt.Fprintln(w, "    param($wordToComplete, $commandAst, $cursorPosition)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    $flags = @{")
	for _, c := range commands {
		fmt.Fprintf(w, "        '%s' = @(%s)\n", c.Name, psStringList(append(flagWords(c.Flags), c.ArgWords...)))
	}
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    $elements = @($commandAst.CommandElements | Select-Object -Skip 1 | ForEach-Object { $_.ToString() })")
	fmt.Fprintln(w, "    $completed = $elements")
	fmt.Fprintln(w, "    if ($wordToComplete) { $completed = @($elements | Select-Object -SkipLast 1) }")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    if ($completed.Count -eq 0) {")
	fmt.Fprintf(w, "        $candidates = @(%s)\n", psStringList(names))
	fmt.Fprintln(w, "    } elseif ($flags.ContainsKey($completed[0])) {")
	fmt.Fprintln(w, "        $candidates = $flags[$completed[0]]")
	fmt.Fprintln(w, "    } else {")
	fmt.Fprintln(w, "        $candidates = @()")
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {")
	fmt.Fprintln(w, "        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)")
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "}")
	return nil
}

// psStringList renders values as a quoted PowerShell list.
func psStringList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
