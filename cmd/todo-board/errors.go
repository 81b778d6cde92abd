package main

import "fmt"

// TaskNotFoundError indicates no task has the given id.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.ID)
}

// InvalidStatusError indicates an unknown status value.
type InvalidStatusError struct {
	Value string
}

func (e InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status: %s (valid: todo, doing, done)", e.Value)
}

// InvalidFilterError indicates an unknown filter value.
type InvalidFilterError struct {
	Value string
}

func (e InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter: %s (valid: all, todo, doing, done)", e.Value)
}

// InvalidThemeError indicates an unknown theme argument.
type InvalidThemeError struct {
	Value string
}

func (e InvalidThemeError) Error() string {
	return fmt.Sprintf("invalid theme: %s (valid: toggle, dark, light)", e.Value)
}
