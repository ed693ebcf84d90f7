package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// kdlOverlay holds only the fields a .topo.kdl file actually set. Bools use
// pointers so an absent key leaves Default()'s value untouched instead of
// being overwritten by a zero value.
type kdlOverlay struct {
	Include           []string
	Exclude           []string
	MaxFileSizeBytes  int64
	MaxGoroutines     int
	RespectGitignore  *bool
	DotDir            string
	StemBodyTerms     *bool
	FuzzyPathMatching *bool
	FuzzyThreshold    float64
}

// loadKDL reads and parses a .topo.kdl file. A missing file is not an
// error (returns nil, nil); only a malformed one is.
func loadKDL(path string) (*kdlOverlay, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	overlay := &kdlOverlay{}
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "index":
			for _, cn := range n.Children {
				applyIndexNode(overlay, cn)
			}
		case "scoring":
			for _, cn := range n.Children {
				applyScoringNode(overlay, cn)
			}
		case "include":
			overlay.Include = append(overlay.Include, collectStringArgs(n)...)
		case "exclude":
			overlay.Exclude = append(overlay.Exclude, collectStringArgs(n)...)
		}
	}
	return overlay, nil
}

func applyIndexNode(overlay *kdlOverlay, cn *document.Node) {
	switch nodeName(cn) {
	case "max_file_size":
		if s, ok := firstStringArg(cn); ok {
			if sz, err := parseSize(s); err == nil {
				overlay.MaxFileSizeBytes = sz
			}
		} else if v, ok := firstIntArg(cn); ok {
			overlay.MaxFileSizeBytes = int64(v)
		}
	case "max_goroutines":
		if v, ok := firstIntArg(cn); ok {
			overlay.MaxGoroutines = v
		}
	case "respect_gitignore":
		if b, ok := firstBoolArg(cn); ok {
			overlay.RespectGitignore = &b
		}
	case "dot_dir":
		if s, ok := firstStringArg(cn); ok {
			overlay.DotDir = s
		}
	}
}

func applyScoringNode(overlay *kdlOverlay, cn *document.Node) {
	switch nodeName(cn) {
	case "stem_body_terms":
		if b, ok := firstBoolArg(cn); ok {
			overlay.StemBodyTerms = &b
		}
	case "fuzzy_path_matching":
		if b, ok := firstBoolArg(cn); ok {
			overlay.FuzzyPathMatching = &b
		}
	case "fuzzy_threshold":
		if v, ok := firstFloatArg(cn); ok {
			overlay.FuzzyThreshold = v
		}
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads string arguments from a node, falling back to
// child-node names for KDL's block list syntax (e.g. exclude { "vendor/**" }).
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// parseSize handles size strings like "10MB", "500KB", "1GB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	var multiplier int64 = 1
	var numStr string
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	default:
		numStr = s
	}
	n, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}
	return n * multiplier, nil
}
