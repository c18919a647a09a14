// Package atomcss compiles utility-first class names into a stylesheet.
//
// An Engine scans content files for class tokens such as "p-4",
// "md:hover:bg-red-500/50" or "w-[calc(100%-2rem)]", resolves each against a
// theme, and emits exactly the CSS those tokens need, deduplicated and in a
// stable cascade order.
//
// # Building
//
// Build discovers files from content globs and writes the stylesheet:
//
//	engine, err := atomcss.New(atomcss.Config{
//		Content:  []string{"web/**/*.{html,templ,go}"},
//		Output:   "web/static/app.css",
//		DarkMode: "class",
//	})
//	if err != nil {
//		return err
//	}
//	result, err := engine.Build(ctx)
//
// # Compiling in memory
//
// Compile works on sources already in memory and touches no files:
//
//	result, err := atomcss.Compile(ctx, []atomcss.Source{
//		{Path: "index.html", Content: []byte(`<div class="p-4 sm:p-8">`)},
//	}, atomcss.Config{})
//
// # CLI Tool
//
// atomcss also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/atomcss/cmd/atomcss@latest
package atomcss
