package contextmenu

// Action identifies what a menu item does.
type Action string

const (
	ActionNewFolder  Action = "new-folder"
	ActionNewFile    Action = "new-file"
	ActionGoTo       Action = "go-to"
	ActionUpload     Action = "upload"
	ActionSetDefault Action = "set-default"
	ActionOpen       Action = "open"
	ActionRename     Action = "rename"
	ActionMove       Action = "move"
	ActionCopy       Action = "copy"
	ActionCopyPath   Action = "copy-path"
	ActionArchive    Action = "archive"
	ActionDownload   Action = "download"
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
)

// Section groups items under a header.
type Section string

const (
	SectionActions Section = "Actions"
	SectionItem    Section = "Item actions"
	SectionDanger  Section = "Danger zone"
)

// Item is a single menu row.
type Item struct {
	Action   Action
	Title    string
	Shortcut string
	Section  Section
	// NeedsTarget items are disabled when nothing is selected.
	NeedsTarget bool
}

// DefaultItems is the menu shown on every filesystem panel.
func DefaultItems() []Item {
	return []Item{
		{Action: ActionNewFolder, Title: "New Folder", Shortcut: "N", Section: SectionActions},
		{Action: ActionNewFile, Title: "New File", Shortcut: "n", Section: SectionActions},
		{Action: ActionGoTo, Title: "Go To...", Shortcut: "g", Section: SectionActions},
		{Action: ActionUpload, Title: "Upload", Shortcut: "u", Section: SectionActions},
		{Action: ActionSetDefault, Title: "Set as Default", Section: SectionActions},

		{Action: ActionOpen, Title: "Open", Shortcut: "o", Section: SectionItem, NeedsTarget: true},
		{Action: ActionRename, Title: "Rename", Shortcut: "r", Section: SectionItem, NeedsTarget: true},
		{Action: ActionMove, Title: "Move", Shortcut: "m", Section: SectionItem, NeedsTarget: true},
		{Action: ActionCopy, Title: "Copy", Shortcut: "c", Section: SectionItem, NeedsTarget: true},
		{Action: ActionCopyPath, Title: "Copy Path", Shortcut: "y", Section: SectionItem, NeedsTarget: true},
		{Action: ActionArchive, Title: "Archive", Shortcut: "a", Section: SectionItem, NeedsTarget: true},
		{Action: ActionDownload, Title: "Download", Shortcut: "d", Section: SectionItem, NeedsTarget: true},
		{Action: ActionEdit, Title: "Edit", Shortcut: "e", Section: SectionItem, NeedsTarget: true},

		{Action: ActionDelete, Title: "Delete", Shortcut: "D", Section: SectionDanger, NeedsTarget: true},
	}
}
