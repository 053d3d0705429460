// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog is the storefront menu: salgado types, their flavors, and the
products offered as suggestions.

# Format

A catalog is a YAML document:

	tipos:
	  - tipo: coxinha
	    nome: Coxinha
	    sabores:
	      - sabor: frango
	        nome: Frango
	        preco: 7.50
	        imagem: https://...
	produtos:
	  - id: 1
	    nome: Coxinha de Frango
	    preco: 3.50
	    tipo: coxinha

Type keys must be unique and every price finite and non-negative. Default
returns the built-in menu, embedded from default.yaml.

# Suggestions

Suggest offers the products whose tipo matches the customer's last order. A
customer with no history, or whose last tipo matches nothing, gets the
flagship product (id 1).

# Hot reload

Store.Watch follows a catalog file with fsnotify. Bursts of writes are
debounced into one reload; a file that fails to parse is logged and the
previous catalog keeps serving.
*/
package catalog
