//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Prints a summary of every asset in ./assets.
func (Run) Inspect() error {
	mg.Deps(Build.Binary)
	fmt.Println("Inspect assets...")
	_, err := executeCmd("bin/skelmesh", withArgs("-assets", "assets", "inspect"), withStream())
	return err
}

// Plays the clip named by $CLIP on the mesh named by $MESH.
func (Run) Play() error {
	mg.Deps(Build.Binary)
	mesh := envOr("MESH", "assets/model.skm")
	args := []string{"-assets", "assets", "play", mesh}
	if clip := envOr("CLIP", ""); clip != "" {
		args = append(args, clip)
	}
	_, err := executeCmd("bin/skelmesh", withArgs(args...), withStream())
	return err
}
