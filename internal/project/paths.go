package project

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ResolveDependencyPath resolves an import specifier relative to the file that
// contains it. The importing file's last segment is dropped, then the
// specifier is applied one segment at a time: ".." drops a segment, "." and
// empty segments are skipped, anything else is appended.
//
// Popping past the root truncates to the empty path instead of failing, so
// "../x" imported from "a.sol" resolves to "x".
func ResolveDependencyPath(spec, importing string) string {
	target := dropLastSegment(importing)
	for _, seg := range strings.Split(spec, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			target = dropLastSegment(target)
		default:
			if target == "" {
				target = seg
			} else {
				target = strings.TrimSuffix(target, "/") + "/" + seg
			}
		}
	}
	return target
}

func dropLastSegment(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// LocalPath returns the part of an absolute artifact origin path that follows
// the package marker, e.g. "/home/ci/node_modules/openzeppelin-solidity/contracts/a.sol"
// with marker "openzeppelin-solidity/" becomes "contracts/a.sol".
// Without the marker the path is returned with forward slashes.
func LocalPath(origin, marker string) string {
	origin = strings.ReplaceAll(origin, "\\", "/")
	if marker == "" {
		return origin
	}
	if _, after, ok := strings.Cut(origin, marker); ok {
		return after
	}
	return origin
}

// TrimDisplayPrefix drops the first n bytes of p. Dependency paths are stored
// rooted at the contracts directory and displayed without it.
func TrimDisplayPrefix(p string, n int) string {
	if n <= 0 {
		return p
	}
	if len(p) <= n {
		return ""
	}
	return p[n:]
}

// BaseName returns the last segment of an import specifier.
func BaseName(spec string) string {
	if idx := strings.LastIndex(spec, "/"); idx >= 0 {
		return spec[idx+1:]
	}
	return spec
}

// CanonicalKey returns the identity key of a resolved path. Paths are compared
// in NFC so that decomposed file names coming from some file systems do not
// produce a second entry for the same file.
func CanonicalKey(p string) string {
	return norm.NFC.String(p)
}

// HasExtension reports whether p names a file with the given extension.
func HasExtension(p, ext string) bool {
	return ext != "" && strings.HasSuffix(p, ext)
}
