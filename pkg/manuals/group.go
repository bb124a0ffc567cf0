package manuals

// Directory is a directory entry together with the files it contains.
type Directory struct {
	Entry
	Files []Entry
}

// Grouped is the listing partitioned for display: directories with their
// nested files, and files living at the listing root.
type Grouped struct {
	Directories []Directory
	RootFiles   []Entry
}

// GroupByDirectory partitions a listing. A file belongs to the directory
// whose name matches its ParentDirectory, or to RootFiles when it has none;
// every file lands in exactly one bucket.
func GroupByDirectory(entries []Entry) Grouped {
	var g Grouped
	for _, e := range entries {
		switch {
		case e.Type == EntryDirectory:
			dir := Directory{Entry: e}
			for _, f := range entries {
				if f.IsFile() && f.ParentDirectory == e.Name {
					dir.Files = append(dir.Files, f)
				}
			}
			g.Directories = append(g.Directories, dir)
		case e.IsFile() && e.ParentDirectory == "":
			g.RootFiles = append(g.RootFiles, e)
		}
	}
	return g
}

// Grouped returns the current listing grouped for display.
func (b *Browser) Grouped() Grouped {
	return GroupByDirectory(b.Entries())
}
