/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/physicistcolloh-png/base43/cmd"

func main() {
	cmd.Execute()
}
