// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/eectl/eectl/internal/meta"
)

const bashCompletionScript = `# bash completion for eectl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_eectl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "collect tags inv diff report completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --padding --schema --sort -s --titles -t"
    local store="--out --aws-profile --aws-region --s3-endpoint"

    case "$cmd" in
        collect)
            local opts="$store --registry -r --repo --tags --tags-file --images --username -u --password --parallel -p --lenient --roots --rpm-pattern --engine --catalog-url --no-rmi --skip-pull --pull-timeout --run-timeout"
            ;;
        tags)
            local opts="$common --registry -r --repo --catalog-url --cache-ttl"
            ;;
        inv)
            local opts="$common $store --category -k --diagnostics --order --parallel -p"
            ;;
        diff)
            local opts="$common $store --category -k --lenient --order --parallel -p --raw --raw-ignore --select"
            ;;
        report)
            local opts="$store --format --from --to --tags --order --lenient --parallel -p --html-out -O --title"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
            return 0
            ;;
        --format)
            COMPREPLY=( $(compgen -W "html text json yaml" -- "$cur") )
            return 0
            ;;
        --order)
            COMPREPLY=( $(compgen -W "created semver name catalog" -- "$cur") )
            return 0
            ;;
        --category|-k)
            COMPREPLY=( $(compgen -W "rpm python collection" -- "$cur") )
            return 0
            ;;
        --engine)
            COMPREPLY=( $(compgen -W "podman docker" -- "$cur") )
            return 0
            ;;
        --out|--tags-file|--html-out|-O)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _eectl eectl
`

const zshCompletionScript = `#compdef eectl

_eectl() {
  local -a cmds
  cmds=(
    'collect:capture image inventories into the store'
    'tags:list the catalog tags of a repository'
    'inv:query stored inventories'
    'diff:diff two stored inventories'
    'report:render the diff matrix of a snapshot sequence'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[columns to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '--padding[space between columns]:padding'
  '--schema[list row keys]'
  '(-s --sort)'{-s,--sort}'[sort keys]:keys'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  local -a store
  store=(
  '--out[inventory store]:store:_files'
  '--aws-profile[AWS profile]:profile'
  '--aws-region[AWS region]:region'
  '--s3-endpoint[S3 endpoint]:url'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'eectl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    collect)
      _arguments -C \
        $store \
        '(-r --registry)'{-r,--registry}'[registry]:registry' \
        '--repo[repository]:repo' \
        '--tags[tags or all]:tags' \
        '--tags-file[tags file]:file:_files' \
        '--images[image references]:images' \
        '(-u --username)'{-u,--username}'[registry username]:user' \
        '--password[registry password]:password' \
        '(-p --parallel)'{-p,--parallel}'[concurrent images]:n' \
        '--lenient[lenient version comparison]' \
        '--roots[collection roots]:roots' \
        '--rpm-pattern[rpm collection glob]:glob' \
        '--engine[container engine]:engine:(podman docker)' \
        '--catalog-url[catalog API]:url' \
        '--no-rmi[keep images]' \
        '--skip-pull[use local images]' \
        '--pull-timeout[pull timeout]:duration' \
        '--run-timeout[run timeout]:duration'
      ;;
    tags)
      _arguments -C \
        $common \
        '(-r --registry)'{-r,--registry}'[registry]:registry' \
        '--repo[repository]:repo' \
        '--catalog-url[catalog API]:url' \
        '--cache-ttl[catalog cache age]:duration'
      ;;
    inv)
      _arguments -C \
        $common \
        $store \
        '(-k --category)'{-k,--category}'[categories]:category:(rpm python collection)' \
        '--diagnostics[show skipped lines]' \
        '--order[ordering]:order:(created semver name catalog)' \
        '(-p --parallel)'{-p,--parallel}'[concurrent documents]:n' \
        '::tag'
      ;;
    diff)
      _arguments -C \
        $common \
        $store \
        '(-k --category)'{-k,--category}'[categories]:category:(rpm python collection)' \
        '--lenient[lenient version comparison]' \
        '--order[ordering]:order:(created semver name catalog)' \
        '(-p --parallel)'{-p,--parallel}'[concurrent documents]:n' \
        '--raw[structural document diff]' \
        '--raw-ignore[keys left out of --raw]:keys' \
        '--select[pick interactively]' \
        '::from' \
        '::to'
      ;;
    report)
      _arguments -C \
        $store \
        '--format[report format]:format:(html text json yaml)' \
        '--from[first snapshot]:spec' \
        '--to[last snapshot]:spec' \
        '--tags[exact identifiers]:tags' \
        '--order[ordering]:order:(created semver name catalog)' \
        '--lenient[lenient version comparison]' \
        '(-p --parallel)'{-p,--parallel}'[concurrent documents]:n' \
        '(-O --html-out)'{-O,--html-out}'[output file]:file:_files' \
        '--title[report title]:title'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _eectl eectl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	w := cmd.Root().Writer
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("usage: eectl completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "eectl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
