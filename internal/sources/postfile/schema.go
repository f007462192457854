package postfile

// File is the top-level structure of posts.yaml:
//
//	posts:
//	  - title: Dreamserver
//	    file: posts/dreamserver.md
type File struct {
	Posts []Entry `yaml:"posts"`
}

// Entry is one post as written in the file.
type Entry struct {
	Title string `yaml:"title"`
	File  string `yaml:"file"`
}
