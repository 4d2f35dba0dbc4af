package main

import (
	"fmt"
	"io"
	"strings"
)

// flagWords returns the command-line spellings of flags for word lists:
// "--output" plus "-o" when a shorthand exists. pflag visits flags in
// lexical order, so the output is deterministic.
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

// valueFlags returns the flags that consume a value, deduplicated by long
// name across commands (optimize and config share the same flag set).
func valueFlags(commands []commandDef) []flagDef {
	seen := make(map[string]bool)
	var flags []flagDef
	for _, cmd := range commands {
		for _, f := range cmd.Flags {
			if f.Type == flagBool || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			flags = append(flags, f)
		}
	}
	return flags
}

// casePattern builds a shell case pattern matching a flag's spellings,
// e.g. "--output|-o".
func casePattern(f flagDef) string {
	if f.Short != "" {
		return "--" + f.Long + "|-" + f.Short
	}
	return "--" + f.Long
}

// bashExtGlob converts a comma-separated glob list like "*.yaml,*.yml"
// into a compgen exclusion pattern like "!*.@(yaml|yml)". Returns empty
// when the list does not follow the "*.ext" shape.
func bashExtGlob(globs string) string {
	var exts []string
	for _, g := range strings.Split(globs, ",") {
		if !strings.HasPrefix(g, "*.") {
			return ""
		}
		exts = append(exts, strings.TrimPrefix(g, "*."))
	}
	return fmt.Sprintf("!*.@(%s)", strings.Join(exts, "|"))
}

// zshGlob converts a comma-separated glob list into a zsh alternation
// pattern like "*.(yaml|yml)".
func zshGlob(globs string) string {
	var exts []string
	for _, g := range strings.Split(globs, ",") {
		if !strings.HasPrefix(g, "*.") {
			return strings.ReplaceAll(globs, ",", " ")
		}
		exts = append(exts, strings.TrimPrefix(g, "*."))
	}
	return fmt.Sprintf("*.(%s)", strings.Join(exts, "|"))
}

// fishSuffixCalls builds a command substitution that offers files matching
// the given glob list, e.g. "(__fish_complete_suffix .yaml; __fish_complete_suffix .yml)".
func fishSuffixCalls(globs string) string {
	var calls []string
	for _, g := range strings.Split(globs, ",") {
		calls = append(calls, "__fish_complete_suffix "+strings.TrimPrefix(g, "*"))
	}
	return "(" + strings.Join(calls, "; ") + ")"
}

// commandNames returns the registry command names as one space-separated word list.
func commandNames(commands []commandDef) string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// generateBash writes a bash completion script built from the command registry.
func generateBash(w io.Writer) error {
	commands := getCommands()
	names := commandNames(commands)

	var b strings.Builder
	b.WriteString("# bash completion for inkfit\n")
	b.WriteString("#\n")
	b.WriteString("# Install: eval \"$(inkfit completion bash)\"\n\n")

	b.WriteString("_inkfit() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")

	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", names)
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	// Value completion for the flag preceding the cursor.
	b.WriteString("    case \"${prev}\" in\n")
	var plain []string
	for _, f := range valueFlags(commands) {
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "        %s)\n", casePattern(f))
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(f.Values, " "))
			b.WriteString("            return\n")
			b.WriteString("            ;;\n")
		case flagFile:
			fmt.Fprintf(&b, "        %s)\n", casePattern(f))
			if pattern := bashExtGlob(f.FileGlob); pattern != "" {
				fmt.Fprintf(&b, "            COMPREPLY=($(compgen -f -X '%s' -- \"${cur}\") $(compgen -d -- \"${cur}\"))\n", pattern)
			} else {
				b.WriteString("            COMPREPLY=($(compgen -f -- \"${cur}\"))\n")
			}
			b.WriteString("            return\n")
			b.WriteString("            ;;\n")
		case flagDir:
			fmt.Fprintf(&b, "        %s)\n", casePattern(f))
			b.WriteString("            COMPREPLY=($(compgen -d -- \"${cur}\"))\n")
			b.WriteString("            return\n")
			b.WriteString("            ;;\n")
		default:
			plain = append(plain, casePattern(f))
		}
	}
	if len(plain) > 0 {
		// Flags that take a free-form value: nothing sensible to offer.
		fmt.Fprintf(&b, "        %s)\n", strings.Join(plain, "|"))
		b.WriteString("            return\n")
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    local command=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("    case \"${command}\" in\n")
	for _, cmd := range commands {
		switch cmd.Name {
		case "completion":
			b.WriteString("        completion)\n")
			b.WriteString("            COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"${cur}\"))\n")
			b.WriteString("            ;;\n")
		case "help":
			b.WriteString("        help)\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", names)
			b.WriteString("            ;;\n")
		default:
			if len(cmd.Flags) == 0 {
				continue
			}
			fmt.Fprintf(&b, "        %s)\n", cmd.Name)
			b.WriteString("            if [[ ${cur} == -* ]]; then\n")
			fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(flagWords(cmd.Flags), " "))
			if cmd.TakesFiles {
				b.WriteString("            else\n")
				if pattern := bashExtGlob(cmd.FilePattern); pattern != "" {
					fmt.Fprintf(&b, "                COMPREPLY=($(compgen -f -X '%s' -- \"${cur}\") $(compgen -d -- \"${cur}\"))\n", pattern)
				} else {
					b.WriteString("                COMPREPLY=($(compgen -f -- \"${cur}\"))\n")
				}
			}
			b.WriteString("            fi\n")
			b.WriteString("            ;;\n")
		}
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _inkfit inkfit\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// generateZsh writes a zsh completion script built from the command registry.
func generateZsh(w io.Writer) error {
	commands := getCommands()

	var b strings.Builder
	b.WriteString("#compdef inkfit\n")
	b.WriteString("# zsh completion for inkfit\n")
	b.WriteString("#\n")
	b.WriteString("# Install: eval \"$(inkfit completion zsh)\"\n\n")

	b.WriteString("_inkfit() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "        '%s:%s'\n", cmd.Name, cmd.Desc)
	}
	b.WriteString("    )\n\n")

	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe -t commands 'inkfit command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"${words[2]}\" in\n")
	for _, cmd := range commands {
		switch cmd.Name {
		case "completion":
			b.WriteString("        completion)\n")
			b.WriteString("            _values 'shell' bash zsh fish powershell\n")
			b.WriteString("            ;;\n")
		case "help":
			b.WriteString("        help)\n")
			b.WriteString("            _describe -t commands 'inkfit command' commands\n")
			b.WriteString("            ;;\n")
		default:
			if len(cmd.Flags) == 0 {
				continue
			}
			fmt.Fprintf(&b, "        %s)\n", cmd.Name)
			b.WriteString("            _arguments \\\n")
			var specs []string
			for _, f := range cmd.Flags {
				specs = append(specs, zshArgumentSpec(f))
			}
			if cmd.TakesFiles {
				specs = append(specs, fmt.Sprintf(`'*:file:_files -g "%s"'`, zshGlob(cmd.FilePattern)))
			}
			for i, spec := range specs {
				b.WriteString("                " + spec)
				if i < len(specs)-1 {
					b.WriteString(" \\")
				}
				b.WriteString("\n")
			}
			b.WriteString("            ;;\n")
		}
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _inkfit inkfit\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshArgumentSpec builds one _arguments spec line for a flag.
func zshArgumentSpec(f flagDef) string {
	// Square brackets delimit the description in _arguments specs.
	desc := strings.ReplaceAll(f.Desc, "[", "(")
	desc = strings.ReplaceAll(desc, "]", ")")

	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(`:file:_files -g "%s"`, zshGlob(f.FileGlob))
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":value:"
	}

	if f.Short != "" {
		// Exclusion group so -o and --output do not both get offered.
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
}

// generateFish writes a fish completion script built from the command registry.
func generateFish(w io.Writer) error {
	commands := getCommands()

	var b strings.Builder
	b.WriteString("# fish completion for inkfit\n")
	b.WriteString("#\n")
	b.WriteString("# Install: inkfit completion fish > ~/.config/fish/completions/inkfit.fish\n\n")

	b.WriteString("complete -c inkfit -f\n\n")

	for _, cmd := range commands {
		fmt.Fprintf(&b, "complete -c inkfit -n __fish_use_subcommand -a %s -d '%s'\n", cmd.Name, cmd.Desc)
	}
	b.WriteString("\n")

	for _, cmd := range commands {
		cond := fmt.Sprintf("'__fish_seen_subcommand_from %s'", cmd.Name)
		switch cmd.Name {
		case "completion":
			fmt.Fprintf(&b, "complete -c inkfit -n %s -xa 'bash zsh fish powershell'\n", cond)
			continue
		case "help":
			fmt.Fprintf(&b, "complete -c inkfit -n %s -xa '%s'\n", cond, commandNames(commands))
			continue
		}

		for _, f := range cmd.Flags {
			fmt.Fprintf(&b, "complete -c inkfit -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			fmt.Fprintf(&b, " -d '%s'", strings.ReplaceAll(f.Desc, "'", `\'`))
			switch f.Type {
			case flagBool:
				// No argument.
			case flagEnum:
				fmt.Fprintf(&b, " -xa '%s'", strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(&b, " -ra '%s'", fishSuffixCalls(f.FileGlob))
			case flagDir:
				b.WriteString(" -ra '(__fish_complete_directories)'")
			default:
				b.WriteString(" -rf")
			}
			b.WriteString("\n")
		}

		if cmd.TakesFiles {
			fmt.Fprintf(&b, "complete -c inkfit -n %s -a '%s'\n", cond, fishSuffixCalls(cmd.FilePattern))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// generatePowerShell writes a PowerShell completion script built from the
// command registry.
func generatePowerShell(w io.Writer) error {
	commands := getCommands()

	var b strings.Builder
	b.WriteString("# PowerShell completion for inkfit\n")
	b.WriteString("#\n")
	b.WriteString("# Install: inkfit completion powershell | Out-String | Invoke-Expression\n\n")

	b.WriteString("Register-ArgumentCompleter -Native -CommandName inkfit -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $command = if ($words.Count -gt 1) { $words[1] } else { '' }\n")
	b.WriteString("    $prev = if ($wordToComplete) { $words[-2] } else { $words[-1] }\n\n")

	// Enum values offered after their flag.
	b.WriteString("    $enumValues = @{\n")
	for _, f := range valueFlags(commands) {
		if f.Type != flagEnum {
			continue
		}
		fmt.Fprintf(&b, "        '--%s' = @(%s)\n", f.Long, psStringList(f.Values))
	}
	b.WriteString("    }\n")
	b.WriteString("    if ($enumValues.ContainsKey($prev)) {\n")
	b.WriteString("        $enumValues[$prev] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")

	b.WriteString("    $completions = switch ($command) {\n")
	for _, cmd := range commands {
		switch cmd.Name {
		case "completion":
			b.WriteString("        'completion' { @('bash', 'zsh', 'fish', 'powershell') }\n")
		case "help":
			fmt.Fprintf(&b, "        'help' { @(%s) }\n", psStringList(strings.Fields(commandNames(commands))))
		default:
			if len(cmd.Flags) == 0 {
				continue
			}
			fmt.Fprintf(&b, "        '%s' { @(%s) }\n", cmd.Name, psStringList(flagWords(cmd.Flags)))
		}
	}
	fmt.Fprintf(&b, "        default { @(%s) }\n", psStringList(strings.Fields(commandNames(commands))))
	b.WriteString("    }\n\n")

	b.WriteString("    $completions | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// psStringList renders values as a PowerShell array body: 'a', 'b', 'c'.
func psStringList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
