//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles the GLSL shaders to SPIR-V.
func (Build) Shaders() error {
	return buildShaders()
}

// Builds the demo binary.
func (Build) Demo() error {
	mg.Deps(Build.Shaders)
	if _, err := executeCmd("go", withArgs("build", "-o", "bastion", "."), withStream()); err != nil {
		return err
	}
	return nil
}

func buildShaders() error {
	if _, err := executeCmd("glslc", withArgs("assets/shaders/castle.vert", "-o", "assets/shaders/castle.vert.spv"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("glslc", withArgs("assets/shaders/castle.frag", "-o", "assets/shaders/castle.frag.spv"), withStream()); err != nil {
		return err
	}
	return nil
}
