//
// libitems is a client for the items server.
// It lists, reads, adds, patches and deletes items, and listens to the live ordered collection.
//

// Create client
//
//	client, err := libitems.NewDefaultClient("http://localhost:5000")
//	if err != nil {
//		log.Fatal(err)
//	}
//	client.SetBearerToken("s3cr3t") // only when the server requires a token
//
// Add an item
//
//	item, err := client.Add(ctx, libitems.NewItem{
//		Title:     "Buy milk",
//		StudentID: "A01282356",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Patch an item (nil fields are left untouched)
//
//	description := "2 bottles"
//	item, err = client.Patch(ctx, item.ID, libitems.ItemPatch{
//		Description: &description,
//	})
//
// Listen to the collection
//
//	sub := client.Listen(func(items []*libitems.Item) {
//		fmt.Println(len(items), "items")
//	}, func(err error) {
//		log.Println(err)
//	})
//	defer sub.Close()
//
package libitems
