package app

import (
	"github.com/specialistvlad/talegrid/internal/adventure"
	"github.com/specialistvlad/talegrid/internal/registry"
	"github.com/specialistvlad/talegrid/modules/charcreation"
	"github.com/specialistvlad/talegrid/modules/common"
	"github.com/specialistvlad/talegrid/modules/intro"
	"github.com/specialistvlad/talegrid/modules/village"
)

// gameModules is the definitive list of handler modules compiled into the
// talegrid binary.
func gameModules(svc *adventure.Services) []registry.Module {
	return []registry.Module{
		&common.Module{},
		&intro.Module{Services: svc},
		&charcreation.Module{Services: svc},
		&village.Module{Services: svc},
	}
}
