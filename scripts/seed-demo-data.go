// Seeds a running server with demo users, posts and comments through
// the public API. Run the server first, then: go run scripts/seed-demo-data.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

const apiBase = "http://localhost:8080/api/v1"

type User struct {
	FirstName string
	LastName  string
	Email     string
	Token     string
	UserID    string
}

type authResponse struct {
	User struct {
		ID        string `json:"id"`
		FirstName string `json:"firstName"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

// socialAuth creates (or signs in) a verified account without the
// activation mail round trip.
func socialAuth(firstName, lastName, email string) (*User, error) {
	body, _ := json.Marshal(map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
	})

	resp, err := http.Post(apiBase+"/social-auth", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("social-auth failed (%d): %s", resp.StatusCode, raw)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, err
	}

	return &User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Token:     auth.AccessToken,
		UserID:    auth.User.ID,
	}, nil
}

func doAuthed(method, path, token string, payload any) (*http.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, apiBase+path, bytes.NewBuffer(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return http.DefaultClient.Do(req)
}

func createPost(user *User, title, description string, tags []string) (string, error) {
	resp, err := doAuthed(http.MethodPost, "/create-post", user.Token, map[string]any{
		"title":       title,
		"description": description,
		"tags":        tags,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("create-post failed (%d): %s", resp.StatusCode, raw)
	}

	var created struct {
		Post struct {
			ID string `json:"id"`
		} `json:"post"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.Post.ID, nil
}

func addComment(user *User, postID, text string) error {
	resp, err := doAuthed(http.MethodPost, "/add-comment/"+postID, user.Token, map[string]string{
		"comment": text,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("add-comment failed (%d): %s", resp.StatusCode, raw)
	}
	return nil
}

func main() {
	seedUsers := []struct {
		firstName, lastName, email string
	}{
		{"Ada", "Lovelace", "ada@demo.local"},
		{"Grace", "Hopper", "grace@demo.local"},
		{"Linus", "Benedict", "linus@demo.local"},
	}

	users := make([]*User, 0, len(seedUsers))
	for _, s := range seedUsers {
		user, err := socialAuth(s.firstName, s.lastName, s.email)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed %s: %v\n", s.email, err)
			os.Exit(1)
		}
		fmt.Printf("seeded user %s %s (%s)\n", user.FirstName, user.LastName, user.UserID)
		users = append(users, user)
	}

	posts := []struct {
		title, description string
		tags               []string
	}{
		{"Interview prep for backend roles", "What I wish I had practiced before my last round", []string{"careers", "go"}},
		{"Remote-first teams", "Notes from two years of distributed work", []string{"remote", "culture"}},
		{"Reading list", "Papers and posts that shaped how I design services", []string{"learning"}},
	}

	for i, p := range posts {
		author := users[i%len(users)]
		postID, err := createPost(author, p.title, p.description, p.tags)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create post: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created post %q (%s)\n", p.title, postID)

		commenter := users[(i+1)%len(users)]
		if err := addComment(commenter, postID, "Great writeup, thanks for sharing"); err != nil {
			fmt.Fprintf(os.Stderr, "failed to comment: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("done. promote one account to recruiter via an admin to seed job offers.")
}
