package main

import (
	"context"
	"fmt"

	"github.com/somolms/somo/core/content"
)

// addPackage registers a content.Package in the catalog.
func (cli *commandLine) addPackage(title, slug, entryPoint, version string, passingScore int) error {
	pkg, err := cli.contentSvc.Create(context.Background(), content.NewPackage{
		Title:        title,
		Slug:         slug,
		EntryPoint:   entryPoint,
		Version:      version,
		PassingScore: passingScore,
	})
	if err != nil {
		return err
	}
	fmt.Printf("package %q registered (id=%s slug=%s)\n", pkg.Title, pkg.ID, pkg.Slug)
	return nil
}

func (cli *commandLine) listPackages() error {
	pkgs, err := cli.contentSvc.Query(context.Background(), content.QueryFilter{})
	if err != nil {
		return err
	}
	for _, pkg := range pkgs {
		fmt.Printf("%s  %s  v%s  %s\n", pkg.ID, pkg.Slug, pkg.Version, pkg.Status)
	}
	return nil
}
