// Package allrules registers every built-in rule analyser with
// internal/rules' default registry via blank import. Importing this package
// once, from a binary's main or an init path, is enough to populate the full
// rule catalogue; nothing else in the module needs to know the list of
// concrete mdNNN packages.
package allrules

import (
	_ "github.com/ekropotin/quickmark-go/internal/rules/md001"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md003"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md004"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md009"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md012"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md013"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md021"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md027"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md029"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md033"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md034"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md038"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md041"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md045"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md051"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md052"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md053"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md054"
	_ "github.com/ekropotin/quickmark-go/internal/rules/md055"
)
