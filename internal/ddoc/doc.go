// Package ddoc discovers Couchbase design documents on disk.
//
// A lookup directory holds two kinds of sources. Flat sources are single
// <name>.ddoc files whose content is the complete document body. Composite
// sources are directories holding <view>.js map functions, each with an
// optional <view>.reduce sibling, assembled into a {"views":{...}} body.
//
// Within each kind, sources whose name starts with "dev_" come first; the
// rest follow in byte order.
package ddoc

import "github.com/spf13/afero"

// fs is the filesystem discovery reads from. Tests replace it with
// afero.NewMemMapFs().
var fs = afero.NewOsFs()
