package nav

import "github.com/ecsproull/edandlinda/pkg/roles"

var (
	allRoles     = []roles.Role{roles.Admin, roles.Creator, roles.Commentor, roles.Manuals, roles.User}
	contentRoles = []roles.Role{roles.Admin, roles.Creator}
	adminOnly    = []roles.Role{roles.Admin}
)

// SidebarItems is the static menu definition. Order is significant.
var SidebarItems = []Item{
	{
		ID:           1,
		Label:        "Home",
		Icon:         "home",
		Path:         "/home",
		AllowedRoles: allRoles,
	},
	{
		ID:           2,
		Label:        "Blog",
		Icon:         "article",
		Path:         "/blog",
		AllowedRoles: allRoles,
	},
	{
		ID:           3,
		Label:        "Map",
		Icon:         "map",
		Path:         "/map",
		AllowedRoles: allRoles,
	},
	{
		ID:           4,
		Label:        "Trip List",
		Icon:         "list",
		Path:         "/triplist",
		AllowedRoles: allRoles,
	},
	{
		ID:           5,
		Label:        "Education",
		Icon:         "school",
		Path:         "/education",
		AllowedRoles: allRoles,
	},
	{
		ID:           6,
		Label:        "Discovery Manuals",
		Icon:         "collections-bookmark",
		Path:         "/manuals",
		AllowedRoles: allRoles,
	},
	{
		ID:           7,
		Label:        "Content Management",
		Icon:         "edit-note",
		AllowedRoles: contentRoles,
		SubItems: []Item{
			{
				ID:           71,
				Label:        "Create Blog",
				Icon:         "create",
				Path:         "/create-blog",
				AllowedRoles: contentRoles,
			},
			{
				ID:           72,
				Label:        "Edit Blogs",
				Icon:         "edit-square",
				Path:         "/edit-blogs",
				AllowedRoles: contentRoles,
			},
		},
	},
	{
		ID:           8,
		Label:        "Administration",
		Icon:         "admin-panel-settings",
		AllowedRoles: adminOnly,
		SubItems: []Item{
			{
				ID:           81,
				Label:        "Manage Users",
				Icon:         "manage-accounts",
				Path:         "/edit-users",
				AllowedRoles: adminOnly,
			},
			{
				ID:           82,
				Label:        "Add User",
				Icon:         "person-add",
				Path:         "/signup",
				AllowedRoles: adminOnly,
			},
			{
				ID:           83,
				Label:        "Manage Places",
				Icon:         "location-on",
				Path:         "/edit-places",
				AllowedRoles: adminOnly,
			},
			{
				ID:           84,
				Label:        "Add Place",
				Icon:         "location-on",
				Path:         "/add-place",
				AllowedRoles: adminOnly,
			},
		},
	},
}
