package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/dayplan/internal/config"
)

var completionCommands = []string{
	"tui", "today", "task", "priority", "todo", "cal", "slots",
	"config", "init", "doctor", "logs", "completion", "version", "help",
}

var completionItemCommands = []string{"add", "ls", "done", "undo", "rm"}

// completionCommand prints a shell completion script.
func completionCommand(_ *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: dayplan completion bash|zsh|fish|powershell")
	}

	commands := strings.Join(completionCommands, " ")
	items := strings.Join(completionItemCommands, " ")

	switch strings.ToLower(args[0]) {
	case "bash":
		fmt.Printf(bashCompletion, commands, items, items, items)
	case "zsh":
		fmt.Printf(zshCompletion, commands, items, items, items)
	case "fish":
		fmt.Print(fishCompletion(commands, items))
	case "powershell", "pwsh":
		fmt.Printf(powershellCompletion, quoteList(completionCommands), quoteList(completionItemCommands))
	default:
		return fmt.Errorf("unsupported shell: %s", args[0])
	}
	return nil
}

func quoteList(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = "'" + w + "'"
	}
	return strings.Join(quoted, ", ")
}

const bashCompletion = `# dayplan bash completion
_dayplan() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
        return 0
    fi

    case "${prev}" in
        task)
            COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
            ;;
        priority)
            COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
            ;;
        todo)
            COMPREPLY=( $(compgen -W "%s edit" -- "${cur}") )
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "${cur}") )
            ;;
        -backend)
            COMPREPLY=( $(compgen -W "file sqlite" -- "${cur}") )
            ;;
        -format)
            COMPREPLY=( $(compgen -W "json yaml" -- "${cur}") )
            ;;
    esac
}
complete -F _dayplan dayplan
`

const zshCompletion = `#compdef dayplan
# dayplan zsh completion

_dayplan() {
    local -a commands
    commands=(%s)

    if (( CURRENT == 2 )); then
        compadd -a commands
        return
    fi

    case "${words[2]}" in
        task)
            compadd %s
            ;;
        priority)
            compadd %s
            ;;
        todo)
            compadd %s edit
            ;;
        completion)
            compadd bash zsh fish powershell
            ;;
    esac
}

compdef _dayplan dayplan
`

func fishCompletion(commands, items string) string {
	var b strings.Builder
	b.WriteString("# dayplan fish completion\n")
	fmt.Fprintf(&b, "complete -c dayplan -f -n '__fish_use_subcommand' -a '%s'\n", commands)
	for _, sub := range []string{"task", "priority"} {
		fmt.Fprintf(&b, "complete -c dayplan -f -n '__fish_seen_subcommand_from %s' -a '%s'\n", sub, items)
	}
	fmt.Fprintf(&b, "complete -c dayplan -f -n '__fish_seen_subcommand_from todo' -a '%s edit'\n", items)
	b.WriteString("complete -c dayplan -f -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'\n")
	b.WriteString("complete -c dayplan -l backend -x -a 'file sqlite'\n")
	b.WriteString("complete -c dayplan -l format -x -a 'json yaml'\n")
	return b.String()
}

const powershellCompletion = `# dayplan PowerShell completion
Register-ArgumentCompleter -Native -CommandName dayplan -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    $commands = @(%s)
    $items = @(%s)
    $elements = $commandAst.CommandElements
    if ($elements.Count -le 2) {
        $candidates = $commands
    } elseif (@('task', 'priority', 'todo') -contains $elements[1].ToString()) {
        $candidates = $items
    } else {
        $candidates = @()
    }
    $candidates | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`
