package usecase

import (
	"errors"
	"strings"

	"github.com/runoshun/della/internal/domain"
)

// targetResolver maps address fragments to tasks.
type targetResolver struct {
	prompter domain.Prompter
}

// resolve looks the fragment up as an address. A bare relative fragment
// that does not resolve falls back to a keyword search over the whole tree,
// asking the prompter when several tasks match.
func (r targetResolver) resolve(tree *domain.Tree, fragment string) (*domain.Task, error) {
	fragment = strings.TrimSpace(fragment)
	task, err := tree.Resolve(fragment)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, domain.ErrNotFound) || !isKeyword(fragment) {
		return nil, err
	}

	var choose domain.ChooseFunc
	if r.prompter != nil {
		choose = r.prompter.ChooseTask
	}
	return tree.ResolveKeyword(fragment, choose)
}

// isKeyword reports whether fragment can be used as a search query.
func isKeyword(fragment string) bool {
	if fragment == "" || !domain.IsRelativeAddress(fragment) {
		return false
	}
	for _, seg := range strings.Split(fragment, "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
