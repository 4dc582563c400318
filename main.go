// Command admitere is the admissions administration client: an interactive console plus
// one-shot commands over the admin API.
package main

func main() {
	Execute()
}
