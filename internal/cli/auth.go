package cli

import (
	"context"
	"fmt"
)

func (a *App) login(ctx context.Context) error {
	idToken, err := GetSecret("Paste ID token")
	if err != nil {
		return err
	}
	if idToken == "" {
		fmt.Println("No token entered.")
		return nil
	}

	user, err := a.session.SignIn(ctx, idToken)
	if err != nil {
		fmt.Println("Sign-in failed:", err)
		return err
	}
	fmt.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *App) connect(ctx context.Context) error {
	if !a.session.IsConnected() {
		fmt.Println("Sign in first (login).")
		return nil
	}

	token, err := GetSecret("Paste access token")
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Println("No token entered.")
		return nil
	}

	if err := a.session.ConnectDrive(ctx, token); err != nil {
		fmt.Println("Connect failed:", err)
		return err
	}
	fmt.Println("Remote storage connected; sync will run in the background.")
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	fmt.Println("Signed out.")
	return nil
}
