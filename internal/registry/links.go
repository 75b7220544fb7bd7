package registry

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bmad-ai/bmadhub/internal/naming"
	"github.com/bmad-ai/bmadhub/pkg/types"
)

const (
	promptSuffix   = ".prompt.md"
	chatmodeSuffix = ".chatmode.md"
)

// linkDir describes one well-known directory of externally authored
// command files, relative to the project root.
type linkDir struct {
	rel     string
	kind    string
	pattern string
}

var linkDirs = []linkDir{
	{filepath.Join(".github", "prompts"), "prompt", naming.Prefix + "-*" + promptSuffix},
	{filepath.Join(".github", "chatmodes"), "chatmode", naming.Prefix + "-*" + chatmodeSuffix},
}

// runLinkPass matches externally authored prompt and chatmode files
// against the built command list, setting LinkedPath on matched records.
// Runs before the snapshot is published, so a published snapshot is
// never mutated. An absent directory is silent; a directory that fails
// to enumerate records an issue. Files without a matching command are
// kept as discovered-but-unlinked.
func runLinkPass(commands []types.Command, projectRoot string) ([]types.Link, []types.Issue) {
	byName := make(map[string]*types.Command, len(commands))
	for i := range commands {
		byName[commands[i].Name] = &commands[i]
	}

	var links []types.Link
	var issues []types.Issue

	for _, dir := range linkDirs {
		abs := filepath.Join(projectRoot, dir.rel)
		entries, err := os.ReadDir(abs)
		if err != nil {
			if !os.IsNotExist(err) {
				issues = append(issues, types.Issue{Stage: "links", Path: abs, Error: err.Error()})
			}
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if ok, _ := doublestar.Match(dir.pattern, entry.Name()); !ok {
				continue
			}

			link := types.Link{
				Path: filepath.Join(dir.rel, entry.Name()),
				Kind: dir.kind,
			}
			if cmd, ok := byName[linkTarget(dir.kind, entry.Name())]; ok {
				link.Command = cmd.Name
				if cmd.LinkedPath == "" {
					cmd.LinkedPath = link.Path
				}
			}
			links = append(links, link)
		}
	}

	return links, issues
}

// linkTarget recovers the external command name a file addresses. Prompt
// stems are external names directly. Chatmode stems carry an -agents-
// infix (bmad-<module>-agents-<name>) which maps to the synthesized
// bmad-agent-<module>-<name>; stems without the infix are tried as-is.
func linkTarget(kind, fileName string) string {
	switch kind {
	case "prompt":
		return strings.TrimSuffix(fileName, promptSuffix)
	case "chatmode":
		stem := strings.TrimSuffix(fileName, chatmodeSuffix)
		if name, ok := naming.AgentNameFromChatmode(stem); ok {
			return name
		}
		return stem
	}
	return ""
}
